package services

import (
	"context"
	"fmt"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService bulk-loads sellers and inventories into the stores.
type CatalogService struct {
	sellers     driven.SellerStore
	inventories driven.InventoryStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(sellers driven.SellerStore, inventories driven.InventoryStore) *CatalogService {
	return &CatalogService{sellers: sellers, inventories: inventories}
}

// Import validates then stores every record. Nothing is written if any
// record is malformed. Writes are not transactional: the first store
// failure stops the import and the returned summary counts what was
// already stored.
func (s *CatalogService) Import(ctx context.Context, catalog *domain.Catalog) (*domain.ImportSummary, error) {
	logger.Section("Catalog Import")
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", domain.ErrInvalidInput)
	}

	known := make(map[string]struct{}, len(catalog.Sellers))
	for i := range catalog.Sellers {
		if err := catalog.Sellers[i].Validate(); err != nil {
			return nil, err
		}
		known[catalog.Sellers[i].ID] = struct{}{}
	}
	for i := range catalog.Inventories {
		inv := &catalog.Inventories[i]
		if err := inv.Validate(); err != nil {
			return nil, err
		}
		if _, ok := known[inv.SellerID]; !ok {
			if _, err := s.sellers.Get(ctx, inv.SellerID); err != nil {
				return nil, fmt.Errorf("inventory for %s: %w", inv.SellerID, err)
			}
		}
	}

	summary := &domain.ImportSummary{}
	for _, seller := range catalog.Sellers {
		if err := s.sellers.Put(ctx, seller); err != nil {
			return summary, fmt.Errorf("store seller %s after %d stored: %w", seller.ID, summary.Sellers, err)
		}
		summary.Sellers++
	}
	for _, inv := range catalog.Inventories {
		inv.Items = domain.UniqueItems(inv.Items)
		inv.Recompute()
		if err := s.inventories.Save(ctx, inv); err != nil {
			return summary, fmt.Errorf("store inventory %s after %d stored: %w", inv.SellerID, summary.Inventories, err)
		}
		summary.Inventories++
	}

	logger.Info("Imported %d sellers, %d inventories", summary.Sellers, summary.Inventories)
	return summary, nil
}
