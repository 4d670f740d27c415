// Command vendee runs the Vendee matching, ranking and dispatch engine.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vendee/vendee/internal/adapters/driven/config/file"
	"github.com/vendee/vendee/internal/adapters/driven/detection/hfclient"
	"github.com/vendee/vendee/internal/adapters/driven/events/kafka"
	"github.com/vendee/vendee/internal/adapters/driven/responder"
	"github.com/vendee/vendee/internal/adapters/driven/storage/memory"
	"github.com/vendee/vendee/internal/adapters/driven/storage/sqlstore"
	"github.com/vendee/vendee/internal/adapters/driving/cli"
	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/core/services"
	"github.com/vendee/vendee/internal/logger"
)

var version = "dev"

// stores groups the persistence ports selected by storage.driver.
type stores struct {
	sellers     driven.SellerStore
	inventories driven.InventoryStore
	requests    driven.RequestLog
	demand      driven.DemandStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		code = 1
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warn("close: %v", err)
			}
		}
	}()

	st, closer, err := openStores(settings)
	if err != nil {
		return err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	// Keep publisher a nil interface when events are disabled.
	var publisher driven.EventPublisher
	if len(settings.EventBrokers) > 0 {
		p, err := kafka.NewPublisher(settings.EventBrokers, settings.EventTopic)
		if err != nil {
			return fmt.Errorf("creating event publisher: %w", err)
		}
		publisher = p
		closers = append(closers, p)
	}

	var detector driven.ItemDetector
	if settings.DetectionEndpoint != "" || settings.DetectionToken != "" {
		client := hfclient.New(hfclient.Config{
			Endpoint:          settings.DetectionEndpoint,
			Token:             settings.DetectionToken,
			RequestsPerSecond: settings.DetectionRPS,
			Timeout:           settings.DetectionTimeout,
		})
		detector = client
		closers = append(closers, client)
	}

	parser := services.NewDemandParser()
	matcher := services.NewMatchingService(st.sellers, st.inventories, settingsService)
	recommender := services.NewRecommendationService(settings.RecommendLimit)
	tracker := services.NewDemandTracker(st.demand, publisher, settingsService)

	newDispatcher := func(r driven.SellerResponder) driving.DispatchService {
		return services.NewDispatchService(st.sellers, st.requests, r, publisher, settingsService)
	}

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		SmartBuy:      services.NewSmartBuyService(parser, matcher, recommender, tracker, settingsService),
		Parser:        parser,
		Matching:      matcher,
		Recommend:     recommender,
		Dispatch:      newDispatcher(responder.NewCoinFlip()),
		Demand:        tracker,
		Seller:        services.NewSellerService(st.sellers, st.inventories, st.demand, detector),
		Catalog:       services.NewCatalogService(st.sellers, st.inventories),
		Settings:      settingsService,
		NewDispatcher: newDispatcher,
	})

	return cli.Execute(ctx)
}

// openStores opens the storage selected in settings. The closer is nil for
// the in-memory driver.
func openStores(settings *domain.EngineSettings) (stores, io.Closer, error) {
	if settings.StorageDriver == domain.StorageMemory {
		logger.Debug("Using in-memory storage")
		return stores{
			sellers:     memory.NewSellerStore(),
			inventories: memory.NewInventoryStore(),
			requests:    memory.NewRequestLog(),
			demand:      memory.NewDemandStore(),
		}, nil, nil
	}

	store, err := sqlstore.Open(settings.StorageDriver, settings.StorageDSN)
	if err != nil {
		return stores{}, nil, fmt.Errorf("opening %s storage: %w", settings.StorageDriver, err)
	}
	logger.Debug("Using %s storage %s", store.Driver(), store.Path())
	return stores{
		sellers:     store.SellerStore(),
		inventories: store.InventoryStore(),
		requests:    store.RequestLog(),
		demand:      store.DemandStore(),
	}, store, nil
}
