package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vendee/vendee/internal/core/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

// isTTY reports whether the command writes to an interactive terminal.
func isTTY(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// styled renders s with style only when writing to a terminal.
func styled(cmd *cobra.Command, style lipgloss.Style, s string) string {
	if !isTTY(cmd) {
		return s
	}
	return style.Render(s)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// addLocationFlags registers --lat and --lng on cmd.
func addLocationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lat", math.NaN(), "latitude of the buyer")
	cmd.Flags().Float64("lng", math.NaN(), "longitude of the buyer")
}

// locationFromFlags reads and validates --lat and --lng.
func locationFromFlags(cmd *cobra.Command) (domain.Coordinate, error) {
	lat, err := cmd.Flags().GetFloat64("lat")
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("getting lat flag: %w", err)
	}
	lng, err := cmd.Flags().GetFloat64("lng")
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("getting lng flag: %w", err)
	}
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return domain.Coordinate{}, errLocationRequired
	}
	return domain.NewCoordinate(lat, lng)
}

// demandItems turns bare item names into demand items with default quantities.
func demandItems(names []string) []domain.DemandItem {
	items := make([]domain.DemandItem, 0, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, domain.DemandItem{
				Name:       part,
				Quantity:   domain.DefaultQuantity,
				Unit:       "kg",
				Category:   domain.CategoryGeneral,
				Confidence: 1,
			})
		}
	}
	return items
}

func printCandidates(cmd *cobra.Command, title string, candidates []domain.MatchCandidate) {
	cmd.Println(styled(cmd, headingStyle, title))
	if len(candidates) == 0 {
		cmd.Println(styled(cmd, mutedStyle, "  (none)"))
		return
	}
	for i := range candidates {
		c := &candidates[i]
		line := fmt.Sprintf("  %d. %s [%s] %.2fkm, rating %.1f, items: %s, total %s",
			i+1, c.Seller.Name, c.Seller.Kind, c.DistanceKm, c.Seller.Rating,
			strings.Join(c.ItemNames(), ", "), c.TotalPrice.StringFixed(2))
		if c.AIScore != nil {
			line += fmt.Sprintf(", score %.0f", *c.AIScore)
		}
		cmd.Println(line)
	}
}

func printNearby(cmd *cobra.Command, sellers []domain.NearbySeller) {
	if len(sellers) == 0 {
		cmd.Println("No sellers found.")
		return
	}
	for i := range sellers {
		s := &sellers[i]
		cmd.Printf("  %d. %s (%s) [%s] %.2fkm, rating %.1f, %d items\n",
			i+1, s.Seller.Name, s.Seller.ID, s.Seller.Kind, s.DistanceKm, s.Seller.Rating, s.ItemCount)
	}
}
