package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// DemandUpsertFunc computes the new record for an item.
// current is nil when no record exists; total is the number of stored records.
type DemandUpsertFunc func(current *domain.DemandRecord, total int) (domain.DemandRecord, error)

// DemandStore persists one DemandRecord per item name.
type DemandStore interface {
	// Upsert atomically reads, transforms and writes the record for itemName.
	Upsert(ctx context.Context, itemName string, fn DemandUpsertFunc) (*domain.DemandRecord, error)

	// Get retrieves the record for an item name.
	Get(ctx context.Context, itemName string) (*domain.DemandRecord, error)

	// List returns all records in creation order.
	List(ctx context.Context) ([]domain.DemandRecord, error)
}
