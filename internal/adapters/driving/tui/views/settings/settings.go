// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vendee/vendee/internal/adapters/driving/tui/messages"
	"github.com/vendee/vendee/internal/adapters/driving/tui/styles"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/core/services"
)

// ErrNoSettingsService is returned when the view has no settings service.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionStorage
	SectionDetection
)

var drivers = []domain.StorageDriver{domain.StorageSQLite, domain.StoragePostgres, domain.StorageMemory}

// View shows engine settings and edits the storage driver and detection token.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.EngineSettings
	err      error
	notice   string

	section  Section
	selected int

	tokenInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	tokenInput := textinput.New()
	tokenInput.Placeholder = "Inference API token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		tokenInput:      tokenInput,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		v.section = SectionOverview
		v.selected = 0
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.section = SectionOverview
		v.selected = 0
		v.tokenInput.Blur()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionStorage:
		return v.handleStorageKeys(msg)
	case SectionDetection:
		return v.handleDetectionKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < 1 {
			v.selected++
		}
	case "r":
		v.notice = ""
		return v, v.loadSettings()
	case "enter":
		if v.selected == 0 {
			v.section = SectionStorage
			v.selected = v.driverIndex()
			return v, nil
		}
		v.section = SectionDetection
		v.tokenInput.Reset()
		return v, v.tokenInput.Focus()
	}
	return v, nil
}

func (v *View) handleStorageKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(drivers)-1 {
			v.selected++
		}
	case "enter":
		return v, v.save(services.KeyStorageDriver, string(drivers[v.selected]))
	}
	return v, nil
}

func (v *View) handleDetectionKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "enter" {
		token := strings.TrimSpace(v.tokenInput.Value())
		if token == "" {
			return v, nil
		}
		v.tokenInput.Blur()
		return v, v.save(services.KeyDetectionToken, token)
	}
	var cmd tea.Cmd
	v.tokenInput, cmd = v.tokenInput.Update(msg)
	return v, cmd
}

func (v *View) driverIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, d := range drivers {
		if d == v.settings.StorageDriver {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	switch v.section {
	case SectionOverview:
		v.renderOverview(&b)
	case SectionStorage:
		v.renderStorage(&b)
	case SectionDetection:
		b.WriteString(v.styles.Subtitle.Render("Image detection token"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.InputField.Render(v.tokenInput.View()))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	}

	return b.String()
}

func (v *View) renderOverview(b *strings.Builder) {
	if s := v.settings; s != nil {
		fmt.Fprintf(b, "Matching:   top %d, fixed cap %d, mobile cap %d/%d\n",
			s.Matching.TopMatches, s.Matching.FixedCap, s.Matching.MobileCapDelivery, s.Matching.MobileCapPickup)
		fmt.Fprintf(b, "Radius:     %.1f km, %d recommendations\n", s.SearchRadiusKm, s.RecommendLimit)
		fmt.Fprintf(b, "Dispatch:   %.1f min/km, %d retries\n", s.MinutesPerKm, s.MaxRetries)
		brokers := "disabled"
		if len(s.EventBrokers) > 0 {
			brokers = strings.Join(s.EventBrokers, ", ") + " -> " + s.EventTopic
		}
		fmt.Fprintf(b, "Events:     %s\n\n", brokers)
	}

	entries := []string{"Storage driver: " + v.driverLabel(), "Detection token: " + v.tokenLabel()}
	for i, entry := range entries {
		cursor := "  "
		line := v.styles.Normal.Render(entry)
		if i == v.selected {
			cursor = "> "
			line = v.styles.Selected.Render(entry)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [r] Reload  [Esc] Back"))
}

func (v *View) renderStorage(b *strings.Builder) {
	b.WriteString(v.styles.Subtitle.Render("Storage driver"))
	b.WriteString("\n\n")
	for i, d := range drivers {
		cursor := "  "
		if i == v.selected {
			cursor = "> "
		}
		b.WriteString(cursor + string(d) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Takes effect on next start."))
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
}

func (v *View) driverLabel() string {
	if v.settings == nil {
		return "unknown"
	}
	return string(v.settings.StorageDriver)
}

func (v *View) tokenLabel() string {
	if v.settings == nil || v.settings.DetectionToken == "" {
		return "not set"
	}
	return "set"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the last loaded settings.
func (v *View) Settings() *domain.EngineSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to the overview.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.notice = ""
	v.err = nil
	v.tokenInput.Reset()
	v.tokenInput.Blur()
}
