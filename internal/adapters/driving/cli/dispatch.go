package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/adapters/driven/responder"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
)

var (
	dispatchItems     []string
	dispatchRequester string
	dispatchAccept    bool
	dispatchReject    bool
	dispatchJSON      bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch [seller-id]",
	Short: "Offer a delivery to a mobile seller",
	Long: `Offers a delivery to a mobile seller and reports whether they accepted.
Accepted deliveries are recorded with an ETA computed from the distance.

By default the seller's answer comes from the configured responder.
Use --accept or --reject to force an outcome.`,
	Args: cobra.ExactArgs(1),
	RunE: runDispatch,
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List accepted delivery requests",
	Args:  cobra.NoArgs,
	RunE:  runRequests,
}

func init() {
	addLocationFlags(dispatchCmd)
	dispatchCmd.Flags().StringSliceVar(&dispatchItems, "items", nil, "items to deliver (comma separated)")
	dispatchCmd.Flags().StringVar(&dispatchRequester, "requester", "", "requester ID (default guest)")
	dispatchCmd.Flags().BoolVar(&dispatchAccept, "accept", false, "force the seller to accept")
	dispatchCmd.Flags().BoolVar(&dispatchReject, "reject", false, "force the seller to reject")
	dispatchCmd.Flags().BoolVar(&dispatchJSON, "json", false, "output result as JSON")
	dispatchCmd.MarkFlagsMutuallyExclusive("accept", "reject")
	requestsCmd.Flags().Bool("json", false, "output requests as JSON")
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(requestsCmd)
}

// dispatcher picks the dispatch service for the forced outcome flags.
func dispatcher() (driving.DispatchService, error) {
	if !dispatchAccept && !dispatchReject {
		if dispatchService == nil {
			return nil, errors.New("dispatch service not configured")
		}
		return dispatchService, nil
	}
	if newDispatcher == nil {
		return nil, errors.New("dispatch service not configured")
	}
	if dispatchAccept {
		return newDispatcher(responder.Accepting()), nil
	}
	return newDispatcher(responder.Rejecting()), nil
}

func runDispatch(cmd *cobra.Command, args []string) error {
	svc, err := dispatcher()
	if err != nil {
		return err
	}

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}

	result, err := svc.Dispatch(cmd.Context(), domain.DispatchRequest{
		SellerID:    args[0],
		RequesterID: dispatchRequester,
		Items:       demandItems(dispatchItems),
		Location:    location,
	})
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	if dispatchJSON {
		return printJSON(cmd, result)
	}

	if result.Accepted() {
		cmd.Println(styled(cmd, goodStyle, result.Message))
		cmd.Printf("  Request: %s\n", result.RequestID)
		if result.SellerContact != "" {
			cmd.Printf("  Contact: %s\n", result.SellerContact)
		}
	} else {
		cmd.Println(styled(cmd, badStyle, result.Message))
	}
	cmd.Printf("  Distance: %.2fkm, ETA: %d min\n", result.DistanceKm, result.ETAMinutes)
	return nil
}

func runRequests(cmd *cobra.Command, _ []string) error {
	if dispatchService == nil {
		return errors.New("dispatch service not configured")
	}

	reqs, err := dispatchService.Requests(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing requests failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, reqs)
	}
	if len(reqs) == 0 {
		cmd.Println("No delivery requests.")
		return nil
	}
	for i := range reqs {
		r := &reqs[i]
		seller := ""
		if len(r.Offers) > 0 {
			seller = r.Offers[0].SellerName
		}
		names := make([]string, len(r.ItemsRequested))
		for j := range r.ItemsRequested {
			names[j] = r.ItemsRequested[j].Name
		}
		cmd.Printf("  %s  %s  %s  %s  %s\n", r.ID, r.Status, seller, r.RequesterID, strings.Join(names, ", "))
	}
	return nil
}
