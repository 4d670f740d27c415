package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure SellerStore implements the interface.
var _ driven.SellerStore = (*SellerStore)(nil)

// SellerStore is an in-memory implementation of driven.SellerStore.
// Insertion order is preserved.
type SellerStore struct {
	mu      sync.RWMutex
	sellers []domain.Seller
	index   map[string]int
}

// NewSellerStore creates a new in-memory seller store.
func NewSellerStore() *SellerStore {
	return &SellerStore{
		index: make(map[string]int),
	}
}

// Insert adds a seller built from the current count.
func (s *SellerStore) Insert(_ context.Context, build func(total int) domain.Seller) (*domain.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seller := build(len(s.sellers))
	if _, ok := s.index[seller.ID]; ok {
		return nil, fmt.Errorf("seller %s: %w", seller.ID, domain.ErrAlreadyExists)
	}
	s.index[seller.ID] = len(s.sellers)
	s.sellers = append(s.sellers, seller)
	return cloneSeller(seller), nil
}

// Update applies fn to a copy of the seller and stores it if fn succeeds.
func (s *SellerStore) Update(_ context.Context, id string, fn func(*domain.Seller) error) (*domain.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := *cloneSeller(s.sellers[i])
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.ID = id
	s.sellers[i] = updated
	return cloneSeller(updated), nil
}

// Get retrieves a seller by ID.
func (s *SellerStore) Get(_ context.Context, id string) (*domain.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSeller(s.sellers[i]), nil
}

// List returns all sellers in insertion order.
func (s *SellerStore) List(_ context.Context) ([]domain.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Seller, len(s.sellers))
	for i := range s.sellers {
		result[i] = *cloneSeller(s.sellers[i])
	}
	return result, nil
}

// Put stores a seller, replacing any existing one with the same ID in place.
func (s *SellerStore) Put(_ context.Context, seller domain.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[seller.ID]; ok {
		s.sellers[i] = *cloneSeller(seller)
		return nil
	}
	s.index[seller.ID] = len(s.sellers)
	s.sellers = append(s.sellers, *cloneSeller(seller))
	return nil
}

func cloneSeller(s domain.Seller) *domain.Seller {
	if s.Specialties != nil {
		s.Specialties = append([]string(nil), s.Specialties...)
	}
	return &s
}
