package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
)

var errSellerServiceMissing = errors.New("seller service not configured")

var sellerCmd = &cobra.Command{
	Use:   "seller",
	Short: "Manage sellers and their inventory",
}

var sellerOnboardCmd = &cobra.Command{
	Use:   "onboard [name]",
	Short: "Register a new seller",
	Args:  cobra.ExactArgs(1),
	RunE:  runSellerOnboard,
}

var sellerStatusCmd = &cobra.Command{
	Use:   "status [seller-id]",
	Short: "Update a seller's kind, status, location or hours",
	Args:  cobra.ExactArgs(1),
	RunE:  runSellerStatus,
}

var sellerRateCmd = &cobra.Command{
	Use:   "rate [seller-id] [rating]",
	Short: "Rate a seller from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE:  runSellerRate,
}

var sellerInventoryCmd = &cobra.Command{
	Use:   "inventory [seller-id]",
	Short: "Show or replace a seller's inventory",
	Long: `Without --item, prints the seller's current inventory.

With one or more --item flags, replaces the whole inventory. Each item is
written as name:quantity:price, optionally followed by :unit.

Example:
  vendee seller inventory V001 --item "banana:5 kg:45" --item "rose:20:10:piece"`,
	Args: cobra.ExactArgs(1),
	RunE: runSellerInventory,
}

var sellerDetectCmd = &cobra.Command{
	Use:   "detect [seller-id] [image-file]",
	Short: "Build a seller's inventory from a photo",
	Args:  cobra.ExactArgs(2),
	RunE:  runSellerDetect,
}

var sellerShowCmd = &cobra.Command{
	Use:   "show [seller-id]",
	Short: "Show a seller",
	Args:  cobra.ExactArgs(1),
	RunE:  runSellerShow,
}

var sellerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sellers",
	Args:  cobra.NoArgs,
	RunE:  runSellerList,
}

var sellerAnalyticsCmd = &cobra.Command{
	Use:   "analytics [seller-id]",
	Short: "Summarise a seller's rating and stock",
	Args:  cobra.ExactArgs(1),
	RunE:  runSellerAnalytics,
}

var sellerSuggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Show the most requested high-priority items",
	Args:  cobra.NoArgs,
	RunE:  runSellerSuggestions,
}

func init() {
	sellerOnboardCmd.Flags().String("contact", "", "phone number or other contact")
	sellerOnboardCmd.Flags().String("kind", "fixed", "fixed or mobile")
	sellerOnboardCmd.Flags().StringSlice("specialties", nil, "what the seller is known for")
	addLocationFlags(sellerOnboardCmd)

	sellerStatusCmd.Flags().String("kind", "", "new kind (fixed or mobile)")
	sellerStatusCmd.Flags().String("status", "", "new status (active or inactive)")
	sellerStatusCmd.Flags().String("hours", "", "new operating hours")
	addLocationFlags(sellerStatusCmd)

	sellerInventoryCmd.Flags().StringArray("item", nil, "inventory line as name:quantity:price[:unit]")
	sellerInventoryCmd.Flags().String("image", "", "inventory image URL")
	sellerDetectCmd.Flags().String("image-url", "", "URL to store with the detected inventory")

	for _, c := range []*cobra.Command{sellerShowCmd, sellerListCmd, sellerAnalyticsCmd, sellerSuggestionsCmd, sellerInventoryCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}

	sellerCmd.AddCommand(
		sellerOnboardCmd, sellerStatusCmd, sellerRateCmd, sellerInventoryCmd, sellerDetectCmd,
		sellerShowCmd, sellerListCmd, sellerAnalyticsCmd, sellerSuggestionsCmd,
	)
	rootCmd.AddCommand(sellerCmd)
}

func runSellerOnboard(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}
	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := domain.ParseSellerKind(kindFlag)
	if err != nil {
		return fmt.Errorf("invalid kind %q: %w", kindFlag, err)
	}
	contact, _ := cmd.Flags().GetString("contact")
	specialties, _ := cmd.Flags().GetStringSlice("specialties")

	seller, err := sellerService.Onboard(cmd.Context(), driving.OnboardRequest{
		Name:        args[0],
		Contact:     contact,
		Location:    location,
		Kind:        kind,
		Specialties: specialties,
	})
	if err != nil {
		return fmt.Errorf("onboarding failed: %w", err)
	}
	cmd.Printf("Onboarded %s as %s (%s)\n", seller.Name, seller.ID, seller.Kind)
	return nil
}

func runSellerStatus(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	var update domain.SellerUpdate
	if v, _ := cmd.Flags().GetString("kind"); v != "" {
		kind, err := domain.ParseSellerKind(v)
		if err != nil {
			return fmt.Errorf("invalid kind %q: %w", v, err)
		}
		update.Kind = &kind
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		status, err := domain.ParseSellerStatus(v)
		if err != nil {
			return fmt.Errorf("invalid status %q: %w", v, err)
		}
		update.Status = &status
	}
	if v, _ := cmd.Flags().GetString("hours"); v != "" {
		update.OperatingHours = &v
	}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		location, err := locationFromFlags(cmd)
		if err != nil {
			return err
		}
		update.Location = &location
	}

	seller, err := sellerService.UpdateStatus(cmd.Context(), args[0], update)
	if err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}
	cmd.Printf("%s is now %s %s at %s\n", seller.ID, seller.Status, seller.Kind, seller.Location)
	return nil
}

func runSellerRate(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid rating %q: %w", args[1], domain.ErrInvalidInput)
	}
	seller, err := sellerService.Rate(cmd.Context(), args[0], rating)
	if err != nil {
		return fmt.Errorf("rating failed: %w", err)
	}
	cmd.Printf("%s rating is now %.2f (%d ratings)\n", seller.ID, seller.Rating, seller.RatingCount)
	return nil
}

// parseInventoryItem reads name:quantity:price[:unit].
func parseInventoryItem(s string) (domain.InventoryItem, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return domain.InventoryItem{}, fmt.Errorf("%w: item %q must be name:quantity:price[:unit]", domain.ErrInvalidInput, s)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("%w: item %q has invalid price", domain.ErrInvalidInput, s)
	}
	item := domain.InventoryItem{
		Name:         strings.TrimSpace(parts[0]),
		Quantity:     strings.TrimSpace(parts[1]),
		Unit:         "kg",
		PricePerUnit: price,
	}
	if len(parts) == 4 {
		item.Unit = strings.TrimSpace(parts[3])
	}
	return item, nil
}

func runSellerInventory(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	raw, _ := cmd.Flags().GetStringArray("item")
	var (
		inv *domain.Inventory
		err error
	)
	if len(raw) == 0 {
		inv, err = sellerService.Inventory(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting inventory failed: %w", err)
		}
	} else {
		items := make([]domain.InventoryItem, 0, len(raw))
		for _, r := range raw {
			item, err := parseInventoryItem(r)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		image, _ := cmd.Flags().GetString("image")
		inv, err = sellerService.UpdateInventory(cmd.Context(), args[0], items, image)
		if err != nil {
			return fmt.Errorf("updating inventory failed: %w", err)
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, inv)
	}
	printInventory(cmd, inv)
	return nil
}

func runSellerDetect(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	image, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}
	imageURL, _ := cmd.Flags().GetString("image-url")

	inv, err := sellerService.DetectInventory(cmd.Context(), args[0], image, imageURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotImplemented) {
			return errors.New("image detection is not configured; set detection.token or detection.endpoint")
		}
		return fmt.Errorf("detection failed: %w", err)
	}
	printInventory(cmd, inv)
	return nil
}

func printInventory(cmd *cobra.Command, inv *domain.Inventory) {
	cmd.Printf("Inventory of %s (%d items, value %s)\n", inv.SellerID, inv.TotalItems, inv.EstimatedValue.StringFixed(2))
	for i := range inv.Items {
		it := &inv.Items[i]
		line := fmt.Sprintf("  %s: %s at %s/%s", it.Name, it.Quantity, it.PricePerUnit.StringFixed(2), it.Unit)
		if it.DetectionConfidence != nil {
			line += fmt.Sprintf(" (detected %.0f%%)", *it.DetectionConfidence*100)
		}
		cmd.Println(line)
	}
	if inv.ImageURL != "" {
		cmd.Printf("  Image: %s\n", inv.ImageURL)
	}
}

func runSellerShow(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	seller, err := sellerService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting seller failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, seller)
	}
	cmd.Printf("%s (%s)\n", seller.Name, seller.ID)
	cmd.Printf("  Kind: %s\n", seller.Kind.Description())
	cmd.Printf("  Status: %s\n", seller.Status)
	cmd.Printf("  Location: %s\n", seller.Location)
	cmd.Printf("  Rating: %.2f (%d ratings)\n", seller.Rating, seller.RatingCount)
	cmd.Printf("  Hours: %s\n", seller.OperatingHours)
	if seller.Contact != "" {
		cmd.Printf("  Contact: %s\n", seller.Contact)
	}
	if len(seller.Specialties) > 0 {
		cmd.Printf("  Specialties: %s\n", strings.Join(seller.Specialties, ", "))
	}
	return nil
}

func runSellerList(cmd *cobra.Command, _ []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	sellers, err := sellerService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sellers failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, sellers)
	}
	if len(sellers) == 0 {
		cmd.Println("No sellers registered.")
		return nil
	}
	for i := range sellers {
		s := &sellers[i]
		cmd.Printf("  %s  %-20s %-7s %-8s rating %.1f\n", s.ID, s.Name, s.Kind, s.Status, s.Rating)
	}
	return nil
}

func runSellerAnalytics(cmd *cobra.Command, args []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	a, err := sellerService.Analytics(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("analytics failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, a)
	}
	cmd.Printf("%s (%s)\n", a.Name, a.SellerID)
	cmd.Printf("  Rating: %.2f (%d ratings)\n", a.Rating, a.RatingCount)
	cmd.Printf("  Kind: %s, status: %s\n", a.Kind, a.Status)
	if a.HasInventory {
		cmd.Printf("  Items: %d, estimated value %s\n", a.CurrentItems, a.EstimatedValue)
		cmd.Printf("  Inventory updated: %s\n", a.LastInventoryUpdate.Format("2006-01-02 15:04"))
	} else {
		cmd.Println("  No inventory yet")
	}
	return nil
}

func runSellerSuggestions(cmd *cobra.Command, _ []string) error {
	if sellerService == nil {
		return errSellerServiceMissing
	}

	records, err := sellerService.DemandSuggestions(cmd.Context())
	if err != nil {
		return fmt.Errorf("suggestions failed: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No high-priority demand right now.")
		return nil
	}
	cmd.Println("Buyers nearby are asking for:")
	for i := range records {
		cmd.Printf("  %d. %s (%d requests)\n", i+1, records[i].ItemName, records[i].TotalRequests)
	}
	return nil
}
