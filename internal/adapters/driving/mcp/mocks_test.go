package mcp

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
)

// mockSmartBuyService is a mock implementation of driving.SmartBuyService.
type mockSmartBuyService struct {
	result *domain.SmartBuyResult
	err    error
	text   string
	loc    domain.Coordinate
}

func (m *mockSmartBuyService) SmartBuy(
	_ context.Context, text string, location domain.Coordinate,
) (*domain.SmartBuyResult, error) {
	m.text = text
	m.loc = location
	return m.result, m.err
}

// mockMatchingService is a mock implementation of driving.MatchingService.
type mockMatchingService struct {
	candidates []domain.MatchCandidate
	nearby     []domain.NearbySeller
	searched   []domain.NearbySeller
	err        error
	kind       *domain.SellerKind
	items      []domain.DemandItem
	radius     float64
	query      string
}

func (m *mockMatchingService) Match(
	_ context.Context, items []domain.DemandItem, _ domain.Coordinate, kind *domain.SellerKind,
) ([]domain.MatchCandidate, error) {
	m.items = items
	m.kind = kind
	return m.candidates, m.err
}

func (m *mockMatchingService) MatchSeparated(
	_ context.Context, _ *domain.StructuredDemand, _ domain.Coordinate,
) (*domain.SeparatedMatches, error) {
	return &domain.SeparatedMatches{}, m.err
}

func (m *mockMatchingService) UnmetItems(_ context.Context, _ []domain.DemandItem) ([]string, error) {
	return nil, m.err
}

func (m *mockMatchingService) Nearby(
	_ context.Context, _ domain.Coordinate, radiusKm float64,
) ([]domain.NearbySeller, error) {
	m.radius = radiusKm
	return m.nearby, m.err
}

func (m *mockMatchingService) Search(
	_ context.Context, query string, _ domain.Coordinate, radiusKm float64,
) ([]domain.NearbySeller, error) {
	m.query = query
	m.radius = radiusKm
	return m.searched, m.err
}

func (m *mockMatchingService) Leaderboard(
	_ context.Context, _ domain.Coordinate, _ float64,
) ([]domain.NearbySeller, error) {
	return m.nearby, m.err
}

// mockParser is a mock implementation of driving.DemandParser.
type mockParser struct {
	demand *domain.StructuredDemand
	err    error
}

func (m *mockParser) Parse(_ context.Context, _ string) (*domain.StructuredDemand, error) {
	return m.demand, m.err
}

// mockDispatchService is a mock implementation of driving.DispatchService.
type mockDispatchService struct {
	result *domain.DispatchResult
	err    error
	req    domain.DispatchRequest
}

func (m *mockDispatchService) Dispatch(_ context.Context, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	m.req = req
	return m.result, m.err
}

func (m *mockDispatchService) Requests(_ context.Context) ([]domain.DeliveryRequest, error) {
	return nil, m.err
}

// mockDemandTracker is a mock implementation of driving.DemandTracker.
type mockDemandTracker struct {
	records  []domain.DemandRecord
	err      error
	recorded []string
}

func (m *mockDemandTracker) Record(_ context.Context, items []string, _ domain.Coordinate) error {
	m.recorded = append(m.recorded, items...)
	return m.err
}

func (m *mockDemandTracker) List(_ context.Context) ([]domain.DemandRecord, error) {
	return m.records, m.err
}

func (m *mockDemandTracker) SetPriority(
	_ context.Context, _ string, _ domain.Priority,
) (*domain.DemandRecord, error) {
	return nil, m.err
}

// mockSellerService is a mock implementation of driving.SellerService.
type mockSellerService struct {
	sellers   []domain.Seller
	seller    *domain.Seller
	inventory *domain.Inventory
	err       error
	invErr    error
}

func (m *mockSellerService) Onboard(_ context.Context, _ driving.OnboardRequest) (*domain.Seller, error) {
	return m.seller, m.err
}

func (m *mockSellerService) UpdateStatus(_ context.Context, _ string, _ domain.SellerUpdate) (*domain.Seller, error) {
	return m.seller, m.err
}

func (m *mockSellerService) Rate(_ context.Context, _ string, _ float64) (*domain.Seller, error) {
	return m.seller, m.err
}

func (m *mockSellerService) UpdateInventory(
	_ context.Context, _ string, _ []domain.InventoryItem, _ string,
) (*domain.Inventory, error) {
	return m.inventory, m.err
}

func (m *mockSellerService) DetectInventory(
	_ context.Context, _ string, _ []byte, _ string,
) (*domain.Inventory, error) {
	return m.inventory, m.err
}

func (m *mockSellerService) Inventory(_ context.Context, _ string) (*domain.Inventory, error) {
	return m.inventory, m.invErr
}

func (m *mockSellerService) Analytics(_ context.Context, _ string) (*domain.SellerAnalytics, error) {
	return nil, m.err
}

func (m *mockSellerService) DemandSuggestions(_ context.Context) ([]domain.DemandRecord, error) {
	return nil, m.err
}

func (m *mockSellerService) Get(_ context.Context, _ string) (*domain.Seller, error) {
	return m.seller, m.err
}

func (m *mockSellerService) List(_ context.Context) ([]domain.Seller, error) {
	return m.sellers, m.err
}

// requiredPorts returns ports with only the mandatory services set.
func requiredPorts() *Ports {
	return &Ports{
		SmartBuy: &mockSmartBuyService{},
		Matching: &mockMatchingService{},
	}
}
