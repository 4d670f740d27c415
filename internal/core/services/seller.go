package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure SellerService implements the interface.
var _ driving.SellerService = (*SellerService)(nil)

// Detection and suggestion limits.
const (
	detectionTopK          = 3
	detectionMinConfidence = 0.3
	suggestionLimit        = 3
	minRating              = 1.0
	maxRating              = 5.0
)

// SellerService manages sellers and their inventory.
type SellerService struct {
	sellers     driven.SellerStore
	inventories driven.InventoryStore
	demand      driven.DemandStore
	detector    driven.ItemDetector
	now         func() time.Time
}

// NewSellerService creates a new seller service.
// The detector is optional (can be nil).
func NewSellerService(
	sellers driven.SellerStore,
	inventories driven.InventoryStore,
	demand driven.DemandStore,
	detector driven.ItemDetector,
) *SellerService {
	return &SellerService{
		sellers:     sellers,
		inventories: inventories,
		demand:      demand,
		detector:    detector,
		now:         time.Now,
	}
}

// Onboard registers a new seller with an ID derived from the seller count.
func (s *SellerService) Onboard(ctx context.Context, req driving.OnboardRequest) (*domain.Seller, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: seller name is required", domain.ErrInvalidInput)
	}
	if err := req.Location.Validate(); err != nil {
		return nil, err
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.SellerKindFixed
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: seller kind %q", domain.ErrInvalidInput, kind)
	}

	now := s.now().UTC()
	seller, err := s.sellers.Insert(ctx, func(total int) domain.Seller {
		return domain.Seller{
			ID:             fmt.Sprintf("V%03d", total+1),
			Name:           name,
			Contact:        strings.TrimSpace(req.Contact),
			Location:       req.Location,
			Status:         domain.SellerStatusActive,
			Kind:           kind,
			Specialties:    append([]string{}, req.Specialties...),
			OperatingHours: domain.DefaultOperatingHours,
			OnboardedAt:    now,
			LastActive:     now,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("onboard seller: %w", err)
	}
	logger.Info("Onboarded seller %s (%s)", seller.ID, seller.Name)
	return seller, nil
}

// UpdateStatus changes the allowed fields and refreshes LastActive.
func (s *SellerService) UpdateStatus(
	ctx context.Context, id string, update domain.SellerUpdate,
) (*domain.Seller, error) {
	if update.Kind != nil && !update.Kind.IsValid() {
		return nil, fmt.Errorf("%w: seller kind %q", domain.ErrInvalidInput, *update.Kind)
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, fmt.Errorf("%w: seller status %q", domain.ErrInvalidInput, *update.Status)
	}
	if update.Location != nil {
		if err := update.Location.Validate(); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	seller, err := s.sellers.Update(ctx, id, func(seller *domain.Seller) error {
		if update.Kind != nil {
			seller.Kind = *update.Kind
		}
		if update.Status != nil {
			seller.Status = *update.Status
		}
		if update.Location != nil {
			seller.Location = *update.Location
		}
		if update.OperatingHours != nil {
			seller.OperatingHours = *update.OperatingHours
		}
		seller.LastActive = now
		return nil
	})
	if err != nil {
		return nil, wrapSellerErr(id, "update seller", err)
	}
	return seller, nil
}

// Rate folds a rating into the seller's running average.
func (s *SellerService) Rate(ctx context.Context, id string, rating float64) (*domain.Seller, error) {
	if rating < minRating || rating > maxRating {
		return nil, fmt.Errorf("%w: rating %.1f must be between 1 and 5", domain.ErrInvalidInput, rating)
	}
	seller, err := s.sellers.Update(ctx, id, func(seller *domain.Seller) error {
		seller.ApplyRating(rating)
		return nil
	})
	if err != nil {
		return nil, wrapSellerErr(id, "rate seller", err)
	}
	return seller, nil
}

// UpdateInventory replaces the seller's snapshot, keeping the first of
// any repeated item names.
func (s *SellerService) UpdateInventory(
	ctx context.Context, id string, items []domain.InventoryItem, imageURL string,
) (*domain.Inventory, error) {
	if _, err := s.sellers.Get(ctx, id); err != nil {
		return nil, wrapSellerErr(id, "get seller", err)
	}

	trimmed := make([]domain.InventoryItem, len(items))
	for i := range items {
		trimmed[i] = items[i]
		trimmed[i].Name = strings.TrimSpace(items[i].Name)
	}
	unique := domain.UniqueItems(trimmed)
	for i := range unique {
		if unique[i].Name == "" {
			return nil, fmt.Errorf("%w: item name is required", domain.ErrInvalidInput)
		}
		if unique[i].PricePerUnit.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for %s", domain.ErrInvalidInput, unique[i].Name)
		}
	}

	now := s.now().UTC()
	inv := domain.Inventory{SellerID: id, Items: unique, LastUpdated: now, ImageURL: imageURL}
	if imageURL == "" {
		if existing, err := s.inventories.Get(ctx, id); err == nil {
			inv.ImageURL = existing.ImageURL
		} else if errors.Is(err, domain.ErrNotFound) {
			inv.ImageURL = fmt.Sprintf("/uploads/%s_cart_%s.jpg", id, now.Format("20060102"))
		} else {
			return nil, fmt.Errorf("get inventory: %w", err)
		}
	}
	inv.Recompute()

	if err := s.inventories.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("save inventory: %w", err)
	}
	logger.Info("Inventory for %s: %d items", id, inv.TotalItems)
	return &inv, nil
}

// DetectInventory classifies a cart photo and stores the confident labels
// as inventory awaiting prices.
func (s *SellerService) DetectInventory(
	ctx context.Context, id string, image []byte, imageURL string,
) (*domain.Inventory, error) {
	if s.detector == nil {
		return nil, fmt.Errorf("item detector: %w", domain.ErrNotImplemented)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	detections, err := s.detector.Detect(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect items: %w", err)
	}
	items := DetectedInventory(detections)
	logger.Debug("Detected %d items from %d labels", len(items), len(detections))
	return s.UpdateInventory(ctx, id, items, imageURL)
}

// DetectedInventory keeps the top labels above the confidence floor and
// turns them into unpriced inventory lines.
func DetectedInventory(detections []domain.DetectedItem) []domain.InventoryItem {
	sorted := append([]domain.DetectedItem(nil), detections...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	items := make([]domain.InventoryItem, 0, detectionTopK)
	for _, d := range sorted {
		if len(items) == detectionTopK {
			break
		}
		name := strings.ToLower(strings.TrimSpace(d.Label))
		if d.Confidence < detectionMinConfidence || name == "" {
			continue
		}
		confidence := d.Confidence
		items = append(items, domain.InventoryItem{
			Name:                name,
			Quantity:            domain.DefaultQuantity,
			Unit:                "kg",
			PricePerUnit:        decimal.Zero,
			Freshness:           "fresh",
			DetectionConfidence: &confidence,
		})
	}
	return items
}

// Inventory returns the seller's current inventory.
func (s *SellerService) Inventory(ctx context.Context, id string) (*domain.Inventory, error) {
	inv, err := s.inventories.Get(ctx, id)
	if err != nil {
		return nil, wrapSellerErr(id, "get inventory", err)
	}
	return inv, nil
}

// Analytics summarises a seller's standing and stock.
func (s *SellerService) Analytics(ctx context.Context, id string) (*domain.SellerAnalytics, error) {
	seller, err := s.sellers.Get(ctx, id)
	if err != nil {
		return nil, wrapSellerErr(id, "get seller", err)
	}

	a := &domain.SellerAnalytics{
		SellerID:    seller.ID,
		Name:        seller.Name,
		Rating:      seller.Rating,
		RatingCount: seller.RatingCount,
		Kind:        seller.Kind,
		Status:      seller.Status,
		LastActive:  seller.LastActive,
	}

	inv, err := s.inventories.Get(ctx, id)
	switch {
	case err == nil:
		a.HasInventory = true
		a.CurrentItems = inv.TotalItems
		a.EstimatedValue = inv.EstimatedValue.StringFixed(2)
		a.LastInventoryUpdate = inv.LastUpdated
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return a, nil
}

// DemandSuggestions returns the most requested high-priority items.
func (s *SellerService) DemandSuggestions(ctx context.Context) ([]domain.DemandRecord, error) {
	records, err := s.demand.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list demand: %w", err)
	}

	high := make([]domain.DemandRecord, 0, len(records))
	for _, r := range records {
		if r.Priority == domain.PriorityHigh {
			high = append(high, r)
		}
	}
	sort.SliceStable(high, func(i, j int) bool {
		return high[i].TotalRequests > high[j].TotalRequests
	})
	return capped(high, suggestionLimit), nil
}

// Get retrieves a seller.
func (s *SellerService) Get(ctx context.Context, id string) (*domain.Seller, error) {
	seller, err := s.sellers.Get(ctx, id)
	if err != nil {
		return nil, wrapSellerErr(id, "get seller", err)
	}
	return seller, nil
}

// List returns all sellers.
func (s *SellerService) List(ctx context.Context) ([]domain.Seller, error) {
	sellers, err := s.sellers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	return sellers, nil
}

func wrapSellerErr(id, op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("seller %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
