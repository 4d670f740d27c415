package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyTopMatches        = "matching.top_matches"
	KeyFixedCap          = "matching.fixed_cap"
	KeyMobileCapDelivery = "matching.mobile_cap_delivery"
	KeyMobileCapPickup   = "matching.mobile_cap_pickup"
	KeyRecommendLimit    = "recommend.limit"
	KeySearchRadius      = "search.radius_km"
	KeyLeaderboardRadius = "leaderboard.radius_km"
	KeyLeaderboardLimit  = "leaderboard.limit"
	KeyMinutesPerKm      = "dispatch.minutes_per_km"
	KeyMaxRetries        = "dispatch.max_retries"
	KeyBucketPrecision   = "demand.bucket_precision"
	KeyStorageDriver     = "storage.driver"
	KeyStorageDSN        = "storage.dsn"
	KeyEventBrokers      = "events.brokers"
	KeyEventTopic        = "events.topic"
	KeyDetectionEndpoint = "detection.endpoint"
	KeyDetectionToken    = "detection.token"
	KeyDetectionRPS      = "detection.requests_per_second"
	KeyDetectionTimeout  = "detection.timeout"
)

// settingKind is how a setting's string form is parsed.
type settingKind int

const (
	kindPositiveInt settingKind = iota
	kindInt
	kindPositiveFloat
	kindString
	kindStringSlice
	kindDuration
	kindDriver
)

var settingKinds = map[string]settingKind{
	KeyTopMatches:        kindPositiveInt,
	KeyFixedCap:          kindPositiveInt,
	KeyMobileCapDelivery: kindPositiveInt,
	KeyMobileCapPickup:   kindPositiveInt,
	KeyRecommendLimit:    kindPositiveInt,
	KeySearchRadius:      kindPositiveFloat,
	KeyLeaderboardRadius: kindPositiveFloat,
	KeyLeaderboardLimit:  kindPositiveInt,
	KeyMinutesPerKm:      kindPositiveFloat,
	KeyMaxRetries:        kindPositiveInt,
	KeyBucketPrecision:   kindInt,
	KeyStorageDriver:     kindDriver,
	KeyStorageDSN:        kindString,
	KeyEventBrokers:      kindStringSlice,
	KeyEventTopic:        kindString,
	KeyDetectionEndpoint: kindString,
	KeyDetectionToken:    kindString,
	KeyDetectionRPS:      kindPositiveFloat,
	KeyDetectionTimeout:  kindDuration,
}

// SettingsService manages engine settings backed by a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, falling back to defaults for unset or
// invalid values.
func (s *SettingsService) Get() (*domain.EngineSettings, error) {
	d := domain.DefaultEngineSettings()

	settings := &domain.EngineSettings{
		Matching: domain.MatchingSettings{
			TopMatches:        s.getPositiveInt(KeyTopMatches, d.Matching.TopMatches),
			FixedCap:          s.getPositiveInt(KeyFixedCap, d.Matching.FixedCap),
			MobileCapDelivery: s.getPositiveInt(KeyMobileCapDelivery, d.Matching.MobileCapDelivery),
			MobileCapPickup:   s.getPositiveInt(KeyMobileCapPickup, d.Matching.MobileCapPickup),
		},
		RecommendLimit:    s.getPositiveInt(KeyRecommendLimit, d.RecommendLimit),
		SearchRadiusKm:    s.getPositiveFloat(KeySearchRadius, d.SearchRadiusKm),
		LeaderboardKm:     s.getPositiveFloat(KeyLeaderboardRadius, d.LeaderboardKm),
		LeaderboardLimit:  s.getPositiveInt(KeyLeaderboardLimit, d.LeaderboardLimit),
		MinutesPerKm:      s.getPositiveFloat(KeyMinutesPerKm, d.MinutesPerKm),
		MaxRetries:        s.getPositiveInt(KeyMaxRetries, d.MaxRetries),
		BucketPrecision:   s.getInt(KeyBucketPrecision, d.BucketPrecision),
		StorageDriver:     s.getDriver(d.StorageDriver),
		StorageDSN:        s.configStore.GetString(KeyStorageDSN),
		EventBrokers:      s.configStore.GetStringSlice(KeyEventBrokers),
		EventTopic:        s.getString(KeyEventTopic, d.EventTopic),
		DetectionEndpoint: s.configStore.GetString(KeyDetectionEndpoint),
		DetectionToken:    s.configStore.GetString(KeyDetectionToken),
		DetectionRPS:      s.getPositiveFloat(KeyDetectionRPS, d.DetectionRPS),
		DetectionTimeout:  s.getDuration(KeyDetectionTimeout, d.DetectionTimeout),
	}

	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindPositiveInt, kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || (kind == kindPositiveInt && n <= 0) {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindPositiveFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindDuration:
		dur, err := time.ParseDuration(value)
		if err != nil || dur <= 0 {
			return fmt.Errorf("%w: %s must be a duration such as 30s", domain.ErrInvalidInput, key)
		}
		parsed = dur.String()
	case kindDriver:
		driver := domain.StorageDriver(strings.ToLower(value))
		if !driver.IsValid() {
			return fmt.Errorf("%w: storage driver %q", domain.ErrInvalidInput, value)
		}
		parsed = string(driver)
	case kindStringSlice:
		var parts []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		parsed = parts
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getInt accepts zero and negative values, so presence is checked first.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	if str, ok := raw.(string); ok {
		if _, err := strconv.Atoi(str); err != nil {
			return defaultVal
		}
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	val := s.configStore.GetString(KeyStorageDriver)
	if val == "" {
		return defaultVal
	}
	driver := domain.StorageDriver(val)
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
