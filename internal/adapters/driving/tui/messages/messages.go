// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/vendee/vendee/internal/core/domain"
)

// SmartBuyCompleted carries the outcome of a smart-buy request.
type SmartBuyCompleted struct {
	Text   string
	Result *domain.SmartBuyResult
	Err    error
}

// DispatchCompleted carries the outcome of a delivery offer.
type DispatchCompleted struct {
	Result *domain.DispatchResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSmartBuy is the request input and seller results view.
	ViewSmartBuy
	// ViewSettings shows the engine settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSmartBuy:
		return "smartbuy"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the engine settings.
type SettingsLoaded struct {
	Settings *domain.EngineSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Key string
	Err error
}
