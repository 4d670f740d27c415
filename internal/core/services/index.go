package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// indexedSeller is an eligible seller joined with its deduplicated stock.
type indexedSeller struct {
	seller   domain.Seller
	items    []domain.InventoryItem
	imageURL string
}

// SellerIndex is a read-only view over sellers and their inventories.
type SellerIndex struct {
	sellers     driven.SellerStore
	inventories driven.InventoryStore
}

// NewSellerIndex creates a new seller index.
func NewSellerIndex(sellers driven.SellerStore, inventories driven.InventoryStore) *SellerIndex {
	return &SellerIndex{
		sellers:     sellers,
		inventories: inventories,
	}
}

// Eligible returns active sellers, optionally restricted to one kind, in
// store order. Malformed records fail with ErrDataIntegrity rather than
// being skipped.
func (x *SellerIndex) Eligible(ctx context.Context, kind *domain.SellerKind) ([]indexedSeller, error) {
	sellers, err := x.sellers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}

	inventories, err := x.inventories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	byID := make(map[string]domain.Inventory, len(inventories))
	for _, inv := range inventories {
		if _, seen := byID[inv.SellerID]; !seen {
			byID[inv.SellerID] = inv
		}
	}

	result := make([]indexedSeller, 0, len(sellers))
	for i := range sellers {
		s := sellers[i]
		if !s.IsActive() {
			continue
		}
		if kind != nil && s.Kind != *kind {
			continue
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}

		entry := indexedSeller{seller: s}
		if inv, ok := byID[s.ID]; ok {
			if err := inv.Validate(); err != nil {
				return nil, err
			}
			entry.items = domain.UniqueItems(inv.Items)
			entry.imageURL = inv.ImageURL
		}
		result = append(result, entry)
	}
	return result, nil
}

// Seller returns one seller regardless of status.
func (x *SellerIndex) Seller(ctx context.Context, id string) (*domain.Seller, error) {
	s, err := x.sellers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("seller %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return s, nil
}
