package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/core/domain"
)

var (
	matchKind      string
	matchDelivery  bool
	matchSeparated bool
	matchRecommend bool
	matchJSON      bool
)

var matchCmd = &cobra.Command{
	Use:   "match [items...]",
	Short: "Rank sellers carrying the given items",
	Long: `Ranks active sellers by match score for a list of item names.
Lower scores are better: distance is added to a penalty for each
requested item the seller does not carry.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	addLocationFlags(matchCmd)
	matchCmd.Flags().StringVar(&matchKind, "kind", "", "only consider fixed or mobile sellers")
	matchCmd.Flags().BoolVar(&matchSeparated, "separated", false, "split results into fixed and mobile lists")
	matchCmd.Flags().BoolVar(&matchDelivery, "delivery", false, "list more mobile sellers when separated")
	matchCmd.Flags().BoolVar(&matchRecommend, "recommend", false, "order results by recommendation score")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchingService == nil {
		return errors.New("matching service not configured")
	}

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}

	items := demandItems(args)
	if len(items) == 0 {
		return fmt.Errorf("%w: no item names given", domain.ErrInvalidInput)
	}

	if matchSeparated {
		demand := &domain.StructuredDemand{
			Items:              items,
			DeliveryRequested:  matchDelivery,
			ParsedSuccessfully: true,
		}
		sep, err := matchingService.MatchSeparated(cmd.Context(), demand, location)
		if err != nil {
			return fmt.Errorf("match failed: %w", err)
		}
		if matchJSON {
			return printJSON(cmd, sep)
		}
		printCandidates(cmd, "Fixed sellers", sep.Fixed)
		printCandidates(cmd, "Mobile sellers", sep.Mobile)
		return nil
	}

	var kind *domain.SellerKind
	if matchKind != "" {
		k, err := domain.ParseSellerKind(matchKind)
		if err != nil {
			return fmt.Errorf("invalid kind %q: %w", matchKind, err)
		}
		kind = &k
	}

	candidates, err := matchingService.Match(cmd.Context(), items, location, kind)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchRecommend {
		if recommendService == nil {
			return errors.New("recommendation service not configured")
		}
		demand := &domain.StructuredDemand{Items: items, DeliveryRequested: matchDelivery, ParsedSuccessfully: true}
		candidates = recommendService.Recommend(demand, candidates)
	}

	if matchJSON {
		return printJSON(cmd, candidates)
	}
	if len(candidates) == 0 {
		cmd.Println("No matching sellers found.")
		return nil
	}
	printCandidates(cmd, "Matches", candidates)
	return nil
}
