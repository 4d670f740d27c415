// Package smartbuy provides the request and seller results view for the TUI.
package smartbuy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vendee/vendee/internal/adapters/driving/tui/components/input"
	"github.com/vendee/vendee/internal/adapters/driving/tui/components/list"
	"github.com/vendee/vendee/internal/adapters/driving/tui/components/status"
	"github.com/vendee/vendee/internal/adapters/driving/tui/keymap"
	"github.com/vendee/vendee/internal/adapters/driving/tui/messages"
	"github.com/vendee/vendee/internal/adapters/driving/tui/styles"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
)

var (
	// ErrNoSmartBuyService indicates that no smart-buy service was provided.
	ErrNoSmartBuyService = errors.New("smart-buy service is required")

	// ErrNoDispatchService indicates that dispatch is not wired.
	ErrNoDispatchService = errors.New("dispatch is not available")
)

// View is the smart-buy view: request input, seller list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.DemandInput
	list      *list.CandidateList
	statusbar *status.Bar

	smartBuyService driving.SmartBuyService
	dispatchService driving.DispatchService
	location        domain.Coordinate
	ctx             context.Context

	result  *domain.SmartBuyResult
	failure *domain.ParseFailure
	err     error

	width      int
	height     int
	ready      bool
	focusInput bool
}

// NewView creates a new smart-buy view for buyers at location.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	smartBuyService driving.SmartBuyService,
	dispatchService driving.DispatchService,
	location domain.Coordinate,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		input:           input.NewDemandInput(s),
		list:            list.NewCandidateList(s),
		statusbar:       status.NewBar(s, km),
		smartBuyService: smartBuyService,
		dispatchService: dispatchService,
		location:        location,
		ctx:             context.Background(),
		width:           80,
		height:          24,
		focusInput:      true,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SmartBuyCompleted:
		v.handleSmartBuyCompleted(msg)
		return v, nil

	case messages.DispatchCompleted:
		v.handleDispatchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		//nolint:exhaustive // only esc and enter are special while typing
		switch msg.Type {
		case tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case tea.KeyEnter:
			text := strings.TrimSpace(v.input.Value())
			if text == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			v.statusbar.SetMessage("")
			return v, v.performSmartBuy(text)
		default:
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
	}

	if msg.Type == tea.KeyEsc {
		return v, v.focusRequest(false)
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewRequest):
		return v, v.focusRequest(true)
	case keymap.Matches(msg.String(), v.keymap.Dispatch):
		return v, v.dispatchSelected()
	}
	return v, nil
}

// focusRequest returns to the input, optionally clearing it.
func (v *View) focusRequest(reset bool) tea.Cmd {
	v.focusInput = true
	if reset {
		v.input.SetValue("")
	}
	return v.input.Focus()
}

func (v *View) performSmartBuy(text string) tea.Cmd {
	ctx := v.ctx
	svc := v.smartBuyService
	location := v.location
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSmartBuyService}
		}
		result, err := svc.SmartBuy(ctx, text, location)
		return messages.SmartBuyCompleted{Text: text, Result: result, Err: err}
	}
}

func (v *View) handleSmartBuyCompleted(msg messages.SmartBuyCompleted) {
	v.failure = nil
	v.result = nil
	v.list.Clear()
	v.statusbar.SetResultCount(0)

	var failure *domain.ParseFailure
	if errors.As(msg.Err, &failure) {
		v.err = nil
		v.failure = failure
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("Could not understand that request")
		return
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.result = msg.Result
	title, candidates := "Recommended", msg.Result.Recommendations
	if len(candidates) == 0 {
		title, candidates = "Matches", msg.Result.Matches
	}
	v.list.SetCandidates(title, candidates)
	v.statusbar.SetResultCount(len(candidates))
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage(msg.Result.Message)

	if len(candidates) > 0 {
		v.focusInput = false
		v.input.Blur()
	}
}

func (v *View) dispatchSelected() tea.Cmd {
	cand := v.list.SelectedCandidate()
	if cand == nil || v.result == nil {
		return nil
	}
	if v.dispatchService == nil {
		v.setError(ErrNoDispatchService)
		return nil
	}
	if cand.Seller.Kind != domain.SellerKindMobile {
		v.statusbar.SetState(status.StateRejected)
		v.statusbar.SetMessage(cand.Seller.Name + " is a fixed seller and cannot deliver")
		return nil
	}

	req := domain.DispatchRequest{
		SellerID: cand.Seller.ID,
		Items:    itemsFor(v.result.Demand.Items, cand),
		Location: v.location,
	}
	v.statusbar.SetState(status.StateDispatching)
	v.statusbar.SetMessage("")

	ctx := v.ctx
	svc := v.dispatchService
	return func() tea.Msg {
		result, err := svc.Dispatch(ctx, req)
		return messages.DispatchCompleted{Result: result, Err: err}
	}
}

// itemsFor keeps the requested items the candidate actually carries.
func itemsFor(requested []domain.DemandItem, cand *domain.MatchCandidate) []domain.DemandItem {
	carried := make(map[string]bool, len(cand.AvailableItems))
	for _, name := range cand.ItemNames() {
		carried[name] = true
	}
	items := make([]domain.DemandItem, 0, len(requested))
	for _, item := range requested {
		if carried[item.Name] {
			items = append(items, item)
		}
	}
	return items
}

func (v *View) handleDispatchCompleted(msg messages.DispatchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	if msg.Result.Accepted() {
		v.statusbar.SetState(status.StateAccepted)
	} else {
		v.statusbar.SetState(status.StateRejected)
	}
	v.statusbar.SetMessage(msg.Result.Message)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the smart-buy view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("Vendee"),
		v.styles.Muted.Render("Buying near "+v.location.String()),
		"",
		v.input.View(),
		"",
	)

	if v.failure != nil {
		lines := []string{v.styles.Warning.Render("Sorry, I could not understand that request. Try:")}
		for _, s := range v.failure.Suggestions {
			lines = append(lines, v.styles.Muted.Render("  - "+s))
		}
		sections = append(sections, strings.Join(lines, "\n"), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.result != nil {
		sections = append(sections, v.renderDemand(&v.result.Demand), "", v.list.View())
		if len(v.result.UnmetItems) > 0 {
			sections = append(sections, "",
				v.styles.Warning.Render("Not available nearby: "+strings.Join(v.result.UnmetItems, ", ")))
		}
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderDemand(d *domain.StructuredDemand) string {
	line := v.styles.Normal.Render("Request: " + d.Summary())
	var flags []string
	if d.DeliveryRequested {
		flags = append(flags, "delivery")
	}
	if d.IsUrgent {
		flags = append(flags, "urgent")
	}
	if d.BudgetConstraint {
		flags = append(flags, "budget")
	}
	if len(flags) > 0 {
		line += v.styles.Muted.Render(fmt.Sprintf("  (%s)", strings.Join(flags, ", ")))
	}
	return line
}

// SetDimensions sets the view dimensions and sizes the components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Header, input, demand line and status bar take about ten lines.
	listHeight := height - 10
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(width, listHeight)
}

// Result returns the last smart-buy result.
func (v *View) Result() *domain.SmartBuyResult {
	return v.result
}

// Failure returns the last parse failure.
func (v *View) Failure() *domain.ParseFailure {
	return v.failure
}

// Candidates returns the listed sellers.
func (v *View) Candidates() []domain.MatchCandidate {
	return v.list.Candidates()
}

// SelectedIndex returns the cursor position in the seller list.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Query returns the current input text.
func (v *View) Query() string {
	return v.input.Value()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// InputFocused reports whether keys go to the request input.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Status returns the status bar state and message.
func (v *View) Status() (status.State, string) {
	return v.statusbar.State(), v.statusbar.Message()
}

// Reset clears the request and results.
func (v *View) Reset() {
	v.input.Reset()
	v.list.Clear()
	v.statusbar.Clear()
	v.result = nil
	v.failure = nil
	v.err = nil
	v.focusInput = true
	v.input.Focus()
}
