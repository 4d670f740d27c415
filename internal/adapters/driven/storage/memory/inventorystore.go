package memory

import (
	"context"
	"sync"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure InventoryStore implements the interface.
var _ driven.InventoryStore = (*InventoryStore)(nil)

// InventoryStore is an in-memory implementation of driven.InventoryStore.
type InventoryStore struct {
	mu          sync.RWMutex
	inventories map[string]domain.Inventory
	order       []string
}

// NewInventoryStore creates a new in-memory inventory store.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		inventories: make(map[string]domain.Inventory),
	}
}

// Get retrieves the inventory for a seller.
func (s *InventoryStore) Get(_ context.Context, sellerID string) (*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.inventories[sellerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneInventory(inv), nil
}

// Save replaces the seller's snapshot.
func (s *InventoryStore) Save(_ context.Context, inv domain.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventories[inv.SellerID]; !ok {
		s.order = append(s.order, inv.SellerID)
	}
	s.inventories[inv.SellerID] = *cloneInventory(inv)
	return nil
}

// List returns all inventories in first-saved order.
func (s *InventoryStore) List(_ context.Context) ([]domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Inventory, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *cloneInventory(s.inventories[id]))
	}
	return result, nil
}

func cloneInventory(inv domain.Inventory) *domain.Inventory {
	inv.Items = append([]domain.InventoryItem(nil), inv.Items...)
	return &inv
}
