package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vendee/vendee/internal/adapters/driving/tui/keymap"
	"github.com/vendee/vendee/internal/adapters/driving/tui/messages"
	"github.com/vendee/vendee/internal/adapters/driving/tui/styles"
	"github.com/vendee/vendee/internal/adapters/driving/tui/views/menu"
	"github.com/vendee/vendee/internal/adapters/driving/tui/views/settings"
	"github.com/vendee/vendee/internal/adapters/driving/tui/views/smartbuy"
	"github.com/vendee/vendee/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	smartBuyView *smartbuy.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// helpReturn is the view the help screen returns to.
	helpReturn messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application for a buyer at location.
func NewApp(ports *Ports, location domain.Coordinate) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		smartBuyView: smartbuy.NewView(s, km, ports.SmartBuy, ports.Dispatch, location),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.smartBuyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("vendee - Smart Buy"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSmartBuy:
			return a, a.smartBuyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewHelp:
			a.helpReturn = messages.ViewMenu
		case messages.ViewMenu:
		}
		return a, nil

	case messages.SmartBuyCompleted:
		a.smartBuyView, cmd = a.smartBuyView.Update(msg)
		a.err = a.smartBuyView.Err()
		return a, cmd

	case messages.DispatchCompleted:
		a.smartBuyView, cmd = a.smartBuyView.Update(msg)
		a.err = a.smartBuyView.Err()
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSmartBuy {
			a.smartBuyView, cmd = a.smartBuyView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink) to the active view.
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSmartBuy:
		a.smartBuyView, cmd = a.smartBuyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)

	case messages.ViewSmartBuy:
		// While typing, every key belongs to the input.
		if !a.smartBuyView.InputFocused() {
			switch {
			case keymap.Matches(msg.String(), a.keymap.Help):
				a.helpReturn = messages.ViewSmartBuy
				a.currentView = messages.ViewHelp
				return a, nil
			case msg.String() == "q":
				return a, tea.Quit
			}
		}
		a.smartBuyView, cmd = a.smartBuyView.Update(msg)

	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)

	case messages.ViewHelp:
		switch msg.String() {
		case "esc", "?":
			a.currentView = a.helpReturn
		case "q":
			return a, tea.Quit
		}
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSmartBuy:
		return a.smartBuyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Anywhere:
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Smart Buy:
  (type)      Describe what you need, e.g. "2 kg bananas delivered"
  enter       Find sellers
  esc         Back to menu

Sellers:
  j/k, ↑/↓    Navigate sellers
  d           Dispatch to the selected mobile seller
  n           New request
  esc         Edit the request
  ?           Toggle this help
  q           Quit

` + a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query returns the current request text.
func (a *App) Query() string {
	return a.smartBuyView.Query()
}

// Result returns the last smart-buy result.
func (a *App) Result() *domain.SmartBuyResult {
	return a.smartBuyView.Result()
}

// SelectedIndex returns the currently selected seller index.
func (a *App) SelectedIndex() int {
	return a.smartBuyView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.smartBuyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
