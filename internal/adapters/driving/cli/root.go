// Package cli provides the cobra command tree for Vendee.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services wired by main before Execute.
var (
	smartBuyService  driving.SmartBuyService
	parserService    driving.DemandParser
	matchingService  driving.MatchingService
	recommendService driving.RecommendationService
	dispatchService  driving.DispatchService
	demandTracker    driving.DemandTracker
	sellerService    driving.SellerService
	catalogService   driving.CatalogService
	settingsService  driving.SettingsService

	// newDispatcher builds a dispatch service around a specific responder.
	// It backs the --accept and --reject flags of the dispatch command.
	newDispatcher func(driven.SellerResponder) driving.DispatchService
)

// Services aggregates everything the command tree needs.
type Services struct {
	SmartBuy      driving.SmartBuyService
	Parser        driving.DemandParser
	Matching      driving.MatchingService
	Recommend     driving.RecommendationService
	Dispatch      driving.DispatchService
	Demand        driving.DemandTracker
	Seller        driving.SellerService
	Catalog       driving.CatalogService
	Settings      driving.SettingsService
	NewDispatcher func(driven.SellerResponder) driving.DispatchService
}

var rootCmd = &cobra.Command{
	Use:   "vendee",
	Short: "Match buyers with nearby street sellers",
	Long: `Vendee matches free-text buyer demand against fixed and mobile sellers,
ranks the candidates, dispatches deliveries to mobile sellers, and tracks
demand that nobody could serve.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	smartBuyService = s.SmartBuy
	parserService = s.Parser
	matchingService = s.Matching
	recommendService = s.Recommend
	dispatchService = s.Dispatch
	demandTracker = s.Demand
	sellerService = s.Seller
	catalogService = s.Catalog
	settingsService = s.Settings
	newDispatcher = s.NewDispatcher
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Long-running commands stop when ctx is done.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentSettings returns stored settings, or defaults when no settings
// service is wired.
func currentSettings() domain.EngineSettings {
	if settingsService == nil {
		return domain.DefaultEngineSettings()
	}
	s, err := settingsService.Get()
	if err != nil {
		return domain.DefaultEngineSettings()
	}
	return *s
}

var errLocationRequired = errors.New("--lat and --lng are required")
