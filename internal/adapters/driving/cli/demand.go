package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/core/domain"
)

var demandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Inspect and manage unmet demand",
	Long:  `Commands for the demand that no nearby seller could serve.`,
}

var demandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded demand",
	Args:  cobra.NoArgs,
	RunE:  runDemandList,
}

var demandRecordCmd = &cobra.Command{
	Use:   "record [items...]",
	Short: "Record unmet demand for items at a location",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDemandRecord,
}

var demandPriorityCmd = &cobra.Command{
	Use:   "priority [item] [low|medium|high]",
	Short: "Set the priority of an item's demand",
	Args:  cobra.ExactArgs(2),
	RunE:  runDemandPriority,
}

func init() {
	demandListCmd.Flags().Bool("json", false, "output records as JSON")
	addLocationFlags(demandRecordCmd)
	demandCmd.AddCommand(demandListCmd)
	demandCmd.AddCommand(demandRecordCmd)
	demandCmd.AddCommand(demandPriorityCmd)
	rootCmd.AddCommand(demandCmd)
}

func runDemandList(cmd *cobra.Command, _ []string) error {
	if demandTracker == nil {
		return errors.New("demand tracker not configured")
	}

	records, err := demandTracker.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing demand failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No unmet demand recorded.")
		return nil
	}
	for i := range records {
		r := &records[i]
		cmd.Printf("  %s  %-12s %4d requests  %d locations  priority %s\n",
			r.ID, r.ItemName, r.TotalRequests, len(r.Locations), r.Priority)
	}
	return nil
}

func runDemandRecord(cmd *cobra.Command, args []string) error {
	if demandTracker == nil {
		return errors.New("demand tracker not configured")
	}

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}

	var names []string
	for _, item := range demandItems(args) {
		names = append(names, item.Name)
	}
	if err := demandTracker.Record(cmd.Context(), names, location); err != nil {
		return fmt.Errorf("recording demand failed: %w", err)
	}
	cmd.Printf("Recorded demand for %s\n", strings.Join(names, ", "))
	return nil
}

func runDemandPriority(cmd *cobra.Command, args []string) error {
	if demandTracker == nil {
		return errors.New("demand tracker not configured")
	}

	priority, err := domain.ParsePriority(args[1])
	if err != nil {
		return fmt.Errorf("invalid priority %q: %w", args[1], err)
	}

	record, err := demandTracker.SetPriority(cmd.Context(), args[0], priority)
	if err != nil {
		return fmt.Errorf("setting priority failed: %w", err)
	}
	cmd.Printf("%s priority set to %s\n", record.ItemName, record.Priority)
	return nil
}
