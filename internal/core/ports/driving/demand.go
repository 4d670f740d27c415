package driving

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// DemandParser turns free text into a structured demand.
type DemandParser interface {
	// Parse never fails hard: text with no recognisable items yields a
	// *domain.ParseFailure alongside a demand with ParsedSuccessfully=false.
	Parse(ctx context.Context, text string) (*domain.StructuredDemand, error)
}

// DemandTracker aggregates demand that no seller could satisfy.
type DemandTracker interface {
	// Record counts one request per item name at location.
	Record(ctx context.Context, items []string, location domain.Coordinate) error

	// List returns all demand records.
	List(ctx context.Context) ([]domain.DemandRecord, error)

	// SetPriority changes the priority of an item's record.
	SetPriority(ctx context.Context, itemName string, priority domain.Priority) (*domain.DemandRecord, error)
}
