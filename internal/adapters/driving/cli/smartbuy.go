package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/core/domain"
)

var smartBuyJSON bool

var smartBuyCmd = &cobra.Command{
	Use:   "smartbuy [text]",
	Short: "Find sellers for a free-text request",
	Long: `Parses a free-text request such as "I want 2 kg bananas delivered",
matches it against nearby sellers, and prints ranked recommendations.
Items no seller carries are recorded as unmet demand.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSmartBuy,
}

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Parse a free-text request without matching",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	addLocationFlags(smartBuyCmd)
	smartBuyCmd.Flags().BoolVar(&smartBuyJSON, "json", false, "output result as JSON")
	parseCmd.Flags().Bool("json", false, "output demand as JSON")
	rootCmd.AddCommand(smartBuyCmd)
	rootCmd.AddCommand(parseCmd)
}

func runSmartBuy(cmd *cobra.Command, args []string) error {
	if smartBuyService == nil {
		return errors.New("smartbuy service not configured")
	}

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}

	result, err := smartBuyService.SmartBuy(cmd.Context(), strings.Join(args, " "), location)
	if err != nil {
		var pf *domain.ParseFailure
		if errors.As(err, &pf) {
			cmd.Println("Sorry, I could not understand that request.")
			for _, s := range pf.Suggestions {
				cmd.Printf("  %s\n", s)
			}
			return nil
		}
		return fmt.Errorf("smartbuy failed: %w", err)
	}

	if smartBuyJSON {
		return printJSON(cmd, result)
	}

	cmd.Printf("Request: %s\n", result.Demand.Summary())
	if result.Demand.DeliveryRequested {
		cmd.Println("Delivery requested")
	}
	cmd.Println()
	cmd.Println(result.Message)
	if result.NoMatches {
		return nil
	}
	cmd.Println()
	printCandidates(cmd, "Recommendations", result.Recommendations)
	cmd.Println()
	printCandidates(cmd, "Fixed sellers", result.Fixed)
	printCandidates(cmd, "Mobile sellers", result.Mobile)
	if len(result.UnmetItems) > 0 {
		cmd.Println()
		cmd.Printf("Not available nearby: %s\n", strings.Join(result.UnmetItems, ", "))
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	if parserService == nil {
		return errors.New("parser service not configured")
	}

	demand, err := parserService.Parse(cmd.Context(), strings.Join(args, " "))
	var pf *domain.ParseFailure
	if err != nil && !errors.As(err, &pf) {
		return fmt.Errorf("parse failed: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd, demand)
	}

	if pf != nil {
		cmd.Println("No items recognised.")
		for _, s := range pf.Suggestions {
			cmd.Printf("  %s\n", s)
		}
		return nil
	}

	for i := range demand.Items {
		it := &demand.Items[i]
		cmd.Printf("  %s: %s (%s, confidence %.2f)\n", it.Name, it.Quantity, it.Category, it.Confidence)
	}
	cmd.Printf("Delivery: %t  Urgent: %t  Budget: %t  Confidence: %.2f\n",
		demand.DeliveryRequested, demand.IsUrgent, demand.BudgetConstraint, demand.OverallConfidence)
	return nil
}
