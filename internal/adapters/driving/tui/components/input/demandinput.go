// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vendee/vendee/internal/adapters/driving/tui/styles"
)

const placeholder = "e.g. 2 kg bananas and tomatoes, deliver urgently"

// DemandInput is the free-text request field.
type DemandInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewDemandInput creates a focused request input.
func NewDemandInput(s *styles.Styles) *DemandInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &DemandInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blink.
func (d *DemandInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (d *DemandInput) Update(msg tea.Msg) (*DemandInput, tea.Cmd) {
	var cmd tea.Cmd
	d.textinput, cmd = d.textinput.Update(msg)
	return d, cmd
}

// View renders the input with its label.
func (d *DemandInput) View() string {
	label := d.styles.Title.Render("Need: ")
	field := d.styles.InputField.Render(d.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (d *DemandInput) Value() string {
	return d.textinput.Value()
}

// SetValue sets the input value.
func (d *DemandInput) SetValue(value string) {
	d.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (d *DemandInput) Focus() tea.Cmd {
	return d.textinput.Focus()
}

// Blur removes focus from the input.
func (d *DemandInput) Blur() {
	d.textinput.Blur()
}

// Focused returns whether the input is focused.
func (d *DemandInput) Focused() bool {
	return d.textinput.Focused()
}

// SetWidth sets the width of the input, leaving room for the label.
func (d *DemandInput) SetWidth(width int) {
	d.width = width
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	d.textinput.Width = inputWidth
}

// Width returns the current width.
func (d *DemandInput) Width() int {
	return d.width
}

// Reset clears the input.
func (d *DemandInput) Reset() {
	d.textinput.Reset()
}
