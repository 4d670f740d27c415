package memory

import (
	"context"
	"sync"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
)

// Ensure DemandStore implements the interface.
var _ driven.DemandStore = (*DemandStore)(nil)

// DemandStore is an in-memory implementation of driven.DemandStore.
// One mutex covers the whole read-modify-write of Upsert.
type DemandStore struct {
	mu      sync.RWMutex
	records []domain.DemandRecord
	index   map[string]int
}

// NewDemandStore creates a new in-memory demand store.
func NewDemandStore() *DemandStore {
	return &DemandStore{
		index: make(map[string]int),
	}
}

// Upsert atomically transforms the record for itemName.
func (s *DemandStore) Upsert(
	_ context.Context, itemName string, fn driven.DemandUpsertFunc,
) (*domain.DemandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[itemName]
	var current *domain.DemandRecord
	if exists {
		current = cloneRecord(s.records[i])
	}

	next, err := fn(current, len(s.records))
	if err != nil {
		return nil, err
	}
	next.ItemName = itemName

	if exists {
		s.records[i] = *cloneRecord(next)
	} else {
		s.index[itemName] = len(s.records)
		s.records = append(s.records, *cloneRecord(next))
	}
	return cloneRecord(next), nil
}

// Get retrieves the record for an item.
func (s *DemandStore) Get(_ context.Context, itemName string) (*domain.DemandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[itemName]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneRecord(s.records[i]), nil
}

// List returns all records in creation order.
func (s *DemandStore) List(_ context.Context) ([]domain.DemandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.DemandRecord, len(s.records))
	for i := range s.records {
		result[i] = *cloneRecord(s.records[i])
	}
	return result, nil
}

func cloneRecord(r domain.DemandRecord) *domain.DemandRecord {
	r.Locations = append([]domain.LocationBucket(nil), r.Locations...)
	return &r
}
