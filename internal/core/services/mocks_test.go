package services

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/adapters/driven/storage/memory"
	"github.com/vendee/vendee/internal/core/domain"
)

// --- Mock implementations ---

// mockResponder implements driven.SellerResponder for testing.
type mockResponder struct {
	status domain.OfferStatus
	err    error
	offers []domain.Offer
}

func (m *mockResponder) Respond(_ context.Context, offer domain.Offer) (domain.OfferStatus, error) {
	m.offers = append(m.offers, offer)
	return m.status, m.err
}

// mockPublisher implements driven.EventPublisher for testing.
type mockPublisher struct {
	mu       sync.Mutex
	dispatch []domain.DispatchEvent
	unmet    []domain.UnmetDemandEvent
	err      error
}

func (m *mockPublisher) PublishDispatch(_ context.Context, e domain.DispatchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatch = append(m.dispatch, e)
	return m.err
}

func (m *mockPublisher) PublishUnmetDemand(_ context.Context, e domain.UnmetDemandEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmet = append(m.unmet, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// mockDetector implements driven.ItemDetector for testing.
type mockDetector struct {
	items []domain.DetectedItem
	err   error
}

func (m *mockDetector) Detect(_ context.Context, _ []byte) ([]domain.DetectedItem, error) {
	return m.items, m.err
}

func (m *mockDetector) Close() error { return nil }

// --- Fixtures ---

// buyer is the requester location used across tests.
var buyer = domain.Coordinate{Latitude: 12.90, Longitude: 77.58}

// north returns a point roughly km kilometres due north of buyer.
func north(km float64) domain.Coordinate {
	return domain.Coordinate{Latitude: buyer.Latitude + km/110.6, Longitude: buyer.Longitude}
}

type testStores struct {
	sellers     *memory.SellerStore
	inventories *memory.InventoryStore
	requests    *memory.RequestLog
	demand      *memory.DemandStore
}

func newTestStores() *testStores {
	return &testStores{
		sellers:     memory.NewSellerStore(),
		inventories: memory.NewInventoryStore(),
		requests:    memory.NewRequestLog(),
		demand:      memory.NewDemandStore(),
	}
}

// addSeller stores a seller and its priced items ("name", price, ...).
func (s *testStores) addSeller(
	t *testing.T, seller domain.Seller, items ...any,
) {
	t.Helper()
	ctx := context.Background()
	if seller.Status == "" {
		seller.Status = domain.SellerStatusActive
	}
	require.NoError(t, s.sellers.Put(ctx, seller))

	if len(items) == 0 {
		return
	}
	inv := domain.Inventory{SellerID: seller.ID}
	for i := 0; i+1 < len(items); i += 2 {
		inv.Items = append(inv.Items, domain.InventoryItem{
			Name:         items[i].(string),
			Quantity:     "10 kg",
			Unit:         "kg",
			PricePerUnit: decimal.NewFromInt(int64(items[i+1].(int))),
		})
	}
	inv.Recompute()
	require.NoError(t, s.inventories.Save(ctx, inv))
}

// seedScenario stores the M1/F1 pair plus distractors.
func (s *testStores) seedScenario(t *testing.T) {
	t.Helper()
	s.addSeller(t, domain.Seller{ID: "M1", Name: "Ravi Cart", Contact: "+91-111", Kind: domain.SellerKindMobile,
		Rating: 4.5, Location: north(0.8)}, "banana", 45, "tomato", 35)
	s.addSeller(t, domain.Seller{ID: "F1", Name: "Lakshmi Stall", Contact: "+91-222", Kind: domain.SellerKindFixed,
		Rating: 4.0, Location: north(0.3)}, "banana", 40)
	s.addSeller(t, domain.Seller{ID: "F2", Name: "Far Stall", Kind: domain.SellerKindFixed,
		Rating: 4.9, Location: north(4.0)}, "tomato", 30)
	s.addSeller(t, domain.Seller{ID: "M2", Name: "Closed Cart", Kind: domain.SellerKindMobile,
		Status: domain.SellerStatusInactive, Rating: 5, Location: buyer}, "banana", 10)
	s.addSeller(t, domain.Seller{ID: "M3", Name: "Herb Cart", Kind: domain.SellerKindMobile,
		Rating: 3.9, Location: north(1.5)}, "coriander", 10)
}

func (s *testStores) matching() *MatchingService {
	return NewMatchingService(s.sellers, s.inventories, nil)
}
