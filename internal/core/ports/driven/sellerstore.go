package driven

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// SellerStore persists sellers.
//
// Insert and Update run their callbacks while holding the store's write
// discipline, so the read-modify-write they describe is atomic.
type SellerStore interface {
	// Insert adds a new seller. build receives the current seller count
	// and returns the seller to store (typically assigning its ID).
	Insert(ctx context.Context, build func(total int) domain.Seller) (*domain.Seller, error)

	// Update applies fn to the stored seller and persists the result.
	// Returns ErrNotFound if the seller does not exist.
	Update(ctx context.Context, id string, fn func(s *domain.Seller) error) (*domain.Seller, error)

	// Get retrieves a seller by ID.
	Get(ctx context.Context, id string) (*domain.Seller, error)

	// List returns all sellers in insertion order.
	List(ctx context.Context) ([]domain.Seller, error)

	// Put stores a seller as-is, replacing any seller with the same ID.
	// Used by catalog imports.
	Put(ctx context.Context, seller domain.Seller) error
}

// InventoryStore persists one inventory snapshot per seller.
type InventoryStore interface {
	// Get retrieves the inventory for a seller.
	Get(ctx context.Context, sellerID string) (*domain.Inventory, error)

	// Save replaces the seller's snapshot.
	Save(ctx context.Context, inv domain.Inventory) error

	// List returns all inventories.
	List(ctx context.Context) ([]domain.Inventory, error)
}
