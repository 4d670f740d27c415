// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vendee/vendee/internal/adapters/driving/tui/styles"
	"github.com/vendee/vendee/internal/core/domain"
)

// CandidateList displays ranked sellers in a navigable list.
type CandidateList struct {
	title      string
	candidates []domain.MatchCandidate
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewCandidateList creates an empty candidate list.
func NewCandidateList(s *styles.Styles) *CandidateList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CandidateList{
		title:  "Sellers",
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (c *CandidateList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *CandidateList) Update(msg tea.Msg) (*CandidateList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the list.
func (c *CandidateList) View() string {
	if len(c.candidates) == 0 {
		return c.styles.Muted.Render("No sellers")
	}

	lines := make([]string, 0, len(c.candidates)+2)
	header := c.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", c.title, len(c.candidates)))
	lines = append(lines, header, "")

	// Each candidate takes two lines.
	visibleCount := (c.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if c.selected >= visibleCount {
		start = c.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(c.candidates) {
		end = len(c.candidates)
	}

	for i := start; i < end; i++ {
		lines = append(lines, c.renderCandidate(i, &c.candidates[i]))
	}

	return strings.Join(lines, "\n")
}

func (c *CandidateList) renderCandidate(index int, cand *domain.MatchCandidate) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	name := cand.Seller.Name
	maxNameLen := c.width - 40
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	facts := fmt.Sprintf("%.2fkm  rating %.1f", cand.DistanceKm, cand.Seller.Rating)
	if cand.AIScore != nil {
		facts += fmt.Sprintf("  score %.0f", *cand.AIScore)
	}

	var titleLine string
	if index == c.selected {
		titleLine = c.styles.Selected.Render(fmt.Sprintf("%s%d. %s", indicator, index+1, name)) +
			" " + c.styles.KindTag(cand.Seller.Kind) + "  " + c.styles.Normal.Render(facts)
	} else {
		titleLine = c.styles.Normal.Render(fmt.Sprintf("%s%d. %s", indicator, index+1, name)) +
			" " + c.styles.KindTag(cand.Seller.Kind) + "  " + c.styles.Muted.Render(facts)
	}

	items := strings.Join(cand.ItemNames(), ", ")
	maxItemsLen := c.width - 20
	if maxItemsLen < 20 {
		maxItemsLen = 20
	}
	if len(items) > maxItemsLen {
		items = items[:maxItemsLen-3] + "..."
	}
	itemLine := c.styles.Muted.Render("     "+items+"  ") +
		c.styles.Price.Render("total "+cand.TotalPrice.StringFixed(2))

	return titleLine + "\n" + itemLine
}

// SetCandidates replaces the list contents and resets the cursor.
func (c *CandidateList) SetCandidates(title string, candidates []domain.MatchCandidate) {
	if title != "" {
		c.title = title
	}
	c.candidates = candidates
	c.selected = 0
}

// Candidates returns the current candidates.
func (c *CandidateList) Candidates() []domain.MatchCandidate {
	return c.candidates
}

// Title returns the list heading.
func (c *CandidateList) Title() string {
	return c.title
}

// Selected returns the index of the selected candidate.
func (c *CandidateList) Selected() int {
	return c.selected
}

// SetSelected sets the selected index, ignoring out-of-range values.
func (c *CandidateList) SetSelected(index int) {
	if index >= 0 && index < len(c.candidates) {
		c.selected = index
	}
}

// SelectedCandidate returns the candidate under the cursor, or nil if none.
func (c *CandidateList) SelectedCandidate() *domain.MatchCandidate {
	if len(c.candidates) == 0 || c.selected < 0 || c.selected >= len(c.candidates) {
		return nil
	}
	return &c.candidates[c.selected]
}

// MoveUp moves selection up.
func (c *CandidateList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *CandidateList) MoveDown() {
	if c.selected < len(c.candidates)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *CandidateList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of candidates.
func (c *CandidateList) Count() int {
	return len(c.candidates)
}

// IsEmpty returns whether the list is empty.
func (c *CandidateList) IsEmpty() bool {
	return len(c.candidates) == 0
}

// Clear empties the list.
func (c *CandidateList) Clear() {
	c.candidates = nil
	c.selected = 0
}
