package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure DemandTracker implements the interface.
var _ driving.DemandTracker = (*DemandTracker)(nil)

// DemandTracker counts requests nobody could serve, per item and location.
type DemandTracker struct {
	store     driven.DemandStore
	publisher driven.EventPublisher
	settings  SettingsProvider
	now       func() time.Time
}

// NewDemandTracker creates a new demand tracker.
// The publisher is optional (can be nil).
func NewDemandTracker(store driven.DemandStore, publisher driven.EventPublisher, settings SettingsProvider) *DemandTracker {
	if settings == nil {
		settings = StaticSettings(domain.DefaultEngineSettings())
	}
	return &DemandTracker{
		store:     store,
		publisher: publisher,
		settings:  settings,
		now:       time.Now,
	}
}

// Record adds one request per distinct item name at location.
// Locations are bucketed to the configured precision.
func (t *DemandTracker) Record(ctx context.Context, items []string, location domain.Coordinate) error {
	logger.Section("Demand Tracking")
	if err := location.Validate(); err != nil {
		return err
	}

	settings, err := t.settings.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	bucket := location.Rounded(settings.BucketPrecision)
	at := t.now().UTC()

	seen := make(map[string]struct{}, len(items))
	recorded := make([]string, 0, len(items))
	for _, name := range items {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		rec, err := t.store.Upsert(ctx, name, func(current *domain.DemandRecord, total int) (domain.DemandRecord, error) {
			if current == nil {
				return domain.DemandRecord{
					ID:            fmt.Sprintf("D%03d", total+1),
					ItemName:      name,
					TotalRequests: 1,
					LastRequested: at,
					Locations:     []domain.LocationBucket{{Location: bucket, RequestCount: 1}},
					AvgMaxPrice:   domain.DefaultAvgMaxPrice,
					Priority:      domain.PriorityMedium,
				}, nil
			}
			next := *current
			next.AddRequest(bucket, at)
			return next, nil
		})
		if err != nil {
			return fmt.Errorf("record demand for %s: %w", name, err)
		}
		logger.Debug("Demand %s (%s): %d requests", rec.ID, name, rec.TotalRequests)
		recorded = append(recorded, name)
	}

	if t.publisher != nil && len(recorded) > 0 {
		event := domain.UnmetDemandEvent{Items: recorded, Location: bucket, OccurredAt: at}
		if err := t.publisher.PublishUnmetDemand(ctx, event); err != nil {
			logger.Warn("Failed to publish unmet demand event: %v", err)
		}
	}
	return nil
}

// List returns all demand records.
func (t *DemandTracker) List(ctx context.Context) ([]domain.DemandRecord, error) {
	records, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list demand: %w", err)
	}
	return records, nil
}

// SetPriority changes the priority of an existing record.
func (t *DemandTracker) SetPriority(
	ctx context.Context, itemName string, priority domain.Priority,
) (*domain.DemandRecord, error) {
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: priority %q", domain.ErrInvalidInput, priority)
	}
	rec, err := t.store.Upsert(ctx, itemName, func(current *domain.DemandRecord, _ int) (domain.DemandRecord, error) {
		if current == nil {
			return domain.DemandRecord{}, fmt.Errorf("demand for %s: %w", itemName, domain.ErrNotFound)
		}
		next := *current
		next.Priority = priority
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
