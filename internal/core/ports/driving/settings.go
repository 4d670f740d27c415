package driving

import "github.com/vendee/vendee/internal/core/domain"

// SettingsService manages engine settings.
type SettingsService interface {
	// Get returns current settings with defaults applied.
	Get() (*domain.EngineSettings, error)

	// Set parses and persists a single setting by key.
	Set(key, value string) error

	// Keys lists the recognised setting keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.EngineSettings
}
