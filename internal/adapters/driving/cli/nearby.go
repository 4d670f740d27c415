package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/core/domain"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List active sellers near a location",
	Args:  cobra.NoArgs,
	RunE:  runNearby,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find nearby sellers carrying an item",
	Long: `Lists nearby active sellers with an inventory item whose name contains
the query, ignoring case. Only the matching items are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the best rated sellers nearby",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

func init() {
	for _, c := range []*cobra.Command{nearbyCmd, searchCmd, leaderboardCmd} {
		addLocationFlags(c)
		c.Flags().Float64("radius", 0, "search radius in km (0 = configured default)")
		c.Flags().Bool("json", false, "output results as JSON")
		rootCmd.AddCommand(c)
	}
}

type nearbyFunc func(cmd *cobra.Command, location domain.Coordinate, radius float64) ([]domain.NearbySeller, error)

func runNearbyQuery(cmd *cobra.Command, query nearbyFunc) error {
	if matchingService == nil {
		return errors.New("matching service not configured")
	}

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}
	radius, err := cmd.Flags().GetFloat64("radius")
	if err != nil {
		return fmt.Errorf("getting radius flag: %w", err)
	}

	sellers, err := query(cmd, location, radius)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, sellers)
	}
	printNearby(cmd, sellers)
	return nil
}

func runNearby(cmd *cobra.Command, _ []string) error {
	return runNearbyQuery(cmd, func(cmd *cobra.Command, loc domain.Coordinate, r float64) ([]domain.NearbySeller, error) {
		sellers, err := matchingService.Nearby(cmd.Context(), loc, r)
		if err != nil {
			return nil, fmt.Errorf("nearby failed: %w", err)
		}
		return sellers, nil
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	return runNearbyQuery(cmd, func(cmd *cobra.Command, loc domain.Coordinate, r float64) ([]domain.NearbySeller, error) {
		sellers, err := matchingService.Search(cmd.Context(), args[0], loc, r)
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}
		return sellers, nil
	})
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	return runNearbyQuery(cmd, func(cmd *cobra.Command, loc domain.Coordinate, r float64) ([]domain.NearbySeller, error) {
		sellers, err := matchingService.Leaderboard(cmd.Context(), loc, r)
		if err != nil {
			return nil, fmt.Errorf("leaderboard failed: %w", err)
		}
		return sellers, nil
	})
}
