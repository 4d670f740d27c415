package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/adapters/driven/responder"
	"github.com/vendee/vendee/internal/adapters/driven/storage/memory"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/core/services"
)

// Buyer location used by every command test.
const (
	testLat = "12.90"
	testLng = "77.58"
)

// north returns a coordinate km kilometres north of the buyer.
func north(km float64) domain.Coordinate {
	return domain.Coordinate{Latitude: 12.90 + km/110.6, Longitude: 77.58}
}

// setupTestServices wires real services over memory stores seeded with
// a mobile cart (V001) and a fixed stall (V002), and returns a cleanup.
func setupTestServices() func() {
	sellers := memory.NewSellerStore()
	inventories := memory.NewInventoryStore()
	requests := memory.NewRequestLog()
	demand := memory.NewDemandStore()
	settings := services.NewSettingsService(memory.NewConfigStore())

	ctx := context.Background()
	seed := []struct {
		seller domain.Seller
		items  []domain.InventoryItem
	}{
		{
			seller: domain.Seller{
				ID: "V001", Name: "Ravi Cart", Contact: "+91-111", Location: north(0.8),
				Status: domain.SellerStatusActive, Kind: domain.SellerKindMobile, Rating: 4.5,
				OperatingHours: domain.DefaultOperatingHours,
			},
			items: []domain.InventoryItem{
				{Name: "banana", Quantity: "10 kg", Unit: "kg", PricePerUnit: decimal.NewFromInt(45)},
				{Name: "tomato", Quantity: "5 kg", Unit: "kg", PricePerUnit: decimal.NewFromInt(35)},
			},
		},
		{
			seller: domain.Seller{
				ID: "V002", Name: "Lakshmi Stall", Location: north(0.3),
				Status: domain.SellerStatusActive, Kind: domain.SellerKindFixed, Rating: 4.0,
				OperatingHours: domain.DefaultOperatingHours,
			},
			items: []domain.InventoryItem{
				{Name: "banana", Quantity: "20 kg", Unit: "kg", PricePerUnit: decimal.NewFromInt(40)},
			},
		},
	}
	for _, s := range seed {
		if err := sellers.Put(ctx, s.seller); err != nil {
			panic(err)
		}
		inv := domain.Inventory{SellerID: s.seller.ID, Items: s.items}
		inv.Recompute()
		if err := inventories.Save(ctx, inv); err != nil {
			panic(err)
		}
	}

	parser := services.NewDemandParser()
	matching := services.NewMatchingService(sellers, inventories, settings)
	recommend := services.NewRecommendationService(domain.DefaultEngineSettings().RecommendLimit)
	tracker := services.NewDemandTracker(demand, nil, settings)
	build := func(r driven.SellerResponder) driving.DispatchService {
		return services.NewDispatchService(sellers, requests, r, nil, settings)
	}

	SetServices(&Services{
		SmartBuy:      services.NewSmartBuyService(parser, matching, recommend, tracker, settings),
		Parser:        parser,
		Matching:      matching,
		Recommend:     recommend,
		Dispatch:      build(responder.Accepting()),
		Demand:        tracker,
		Seller:        services.NewSellerService(sellers, inventories, demand, nil),
		Catalog:       services.NewCatalogService(sellers, inventories),
		Settings:      settings,
		NewDispatcher: build,
	})

	return func() {
		SetServices(&Services{})
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag in the tree to its default so state does
// not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func withLocation(args ...string) []string {
	return append(args, "--lat", testLat, "--lng", testLng)
}

func requireRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, out)
	return out
}
