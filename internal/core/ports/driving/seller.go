package driving

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// OnboardRequest describes a new seller.
type OnboardRequest struct {
	Name        string
	Contact     string
	Location    domain.Coordinate
	Kind        domain.SellerKind
	Specialties []string
}

// SellerService manages sellers and their inventory.
type SellerService interface {
	// Onboard registers a new seller.
	Onboard(ctx context.Context, req OnboardRequest) (*domain.Seller, error)

	// UpdateStatus changes kind, status, location or hours.
	UpdateStatus(ctx context.Context, id string, update domain.SellerUpdate) (*domain.Seller, error)

	// Rate folds a rating in [1, 5] into the seller's average.
	Rate(ctx context.Context, id string, rating float64) (*domain.Seller, error)

	// UpdateInventory replaces the seller's whole inventory snapshot.
	UpdateInventory(ctx context.Context, id string, items []domain.InventoryItem, imageURL string) (*domain.Inventory, error)

	// DetectInventory derives inventory from a photo and stores it.
	// Returns ErrNotImplemented when no detector is configured.
	DetectInventory(ctx context.Context, id string, image []byte, imageURL string) (*domain.Inventory, error)

	// Inventory returns the seller's current inventory.
	Inventory(ctx context.Context, id string) (*domain.Inventory, error)

	// Analytics summarises a seller.
	Analytics(ctx context.Context, id string) (*domain.SellerAnalytics, error)

	// DemandSuggestions returns the most requested high-priority items.
	DemandSuggestions(ctx context.Context) ([]domain.DemandRecord, error)

	// Get retrieves a seller.
	Get(ctx context.Context, id string) (*domain.Seller, error)

	// List returns all sellers.
	List(ctx context.Context) ([]domain.Seller, error)
}

// CatalogService bulk-loads sellers and inventories.
type CatalogService interface {
	// Import stores every seller and inventory in the catalog.
	Import(ctx context.Context, catalog *domain.Catalog) (*domain.ImportSummary, error)
}
