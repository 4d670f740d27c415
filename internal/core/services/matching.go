package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure MatchingService implements the interface.
var _ driving.MatchingService = (*MatchingService)(nil)

const (
	distanceWeight    = 0.5
	missingItemWeight = 2.0
)

// SettingsProvider supplies current engine settings.
type SettingsProvider interface {
	Get() (*domain.EngineSettings, error)
}

// staticSettings serves fixed settings.
type staticSettings domain.EngineSettings

func (s staticSettings) Get() (*domain.EngineSettings, error) {
	settings := domain.EngineSettings(s)
	return &settings, nil
}

// StaticSettings wraps fixed settings as a SettingsProvider.
func StaticSettings(settings domain.EngineSettings) SettingsProvider {
	return staticSettings(settings)
}

// MatchingService ranks eligible sellers by distance and completeness.
type MatchingService struct {
	index    *SellerIndex
	settings SettingsProvider
}

// NewMatchingService creates a new matching service.
// If settings is nil, the defaults are used.
func NewMatchingService(
	sellers driven.SellerStore,
	inventories driven.InventoryStore,
	settings SettingsProvider,
) *MatchingService {
	if settings == nil {
		settings = StaticSettings(domain.DefaultEngineSettings())
	}
	return &MatchingService{
		index:    NewSellerIndex(sellers, inventories),
		settings: settings,
	}
}

// Match returns the best candidates, lowest match score first.
func (s *MatchingService) Match(
	ctx context.Context, items []domain.DemandItem, location domain.Coordinate, kind *domain.SellerKind,
) ([]domain.MatchCandidate, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	candidates, err := s.candidates(ctx, items, location, kind)
	if err != nil {
		return nil, err
	}
	return capped(candidates, settings.Matching.TopMatches), nil
}

// MatchSeparated splits the global top matches by seller kind.
func (s *MatchingService) MatchSeparated(
	ctx context.Context, demand *domain.StructuredDemand, location domain.Coordinate,
) (*domain.SeparatedMatches, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	top, err := s.Match(ctx, demand.Items, location, nil)
	if err != nil {
		return nil, err
	}
	return separate(top, settings.Matching, demand.DeliveryRequested), nil
}

// separate partitions candidates by kind and applies the per-kind caps.
func separate(top []domain.MatchCandidate, caps domain.MatchingSettings, delivery bool) *domain.SeparatedMatches {
	out := &domain.SeparatedMatches{
		Fixed:  []domain.MatchCandidate{},
		Mobile: []domain.MatchCandidate{},
	}
	for _, c := range top {
		if c.Seller.IsMobile() {
			out.Mobile = append(out.Mobile, c)
		} else {
			out.Fixed = append(out.Fixed, c)
		}
	}
	out.Fixed = capped(out.Fixed, caps.FixedCap)
	out.Mobile = capped(out.Mobile, caps.MobileCap(delivery))
	return out
}

// UnmetItems returns requested names that no eligible seller carries.
func (s *MatchingService) UnmetItems(ctx context.Context, items []domain.DemandItem) ([]string, error) {
	eligible, err := s.index.Eligible(ctx, nil)
	if err != nil {
		return nil, err
	}

	carried := make(map[string]struct{})
	for _, e := range eligible {
		for _, item := range e.items {
			carried[item.Name] = struct{}{}
		}
	}

	var unmet []string
	for _, name := range uniqueNames(items) {
		if _, ok := carried[name]; !ok {
			unmet = append(unmet, name)
		}
	}
	return unmet, nil
}

// candidates scores every eligible seller carrying at least one item.
func (s *MatchingService) candidates(
	ctx context.Context, items []domain.DemandItem, location domain.Coordinate, kind *domain.SellerKind,
) ([]domain.MatchCandidate, error) {
	logger.Section("Matching")
	if err := location.Validate(); err != nil {
		return nil, err
	}

	requested := uniqueNames(items)
	logger.Debug("Requested: %v at %s", requested, location)

	eligible, err := s.index.Eligible(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	result := make([]domain.MatchCandidate, 0, len(eligible))
	for _, e := range eligible {
		available := make([]domain.InventoryItem, 0, len(requested))
		total := decimal.Zero
		for _, name := range requested {
			for _, item := range e.items {
				if item.Name == name {
					available = append(available, item)
					total = total.Add(item.PricePerUnit)
					break
				}
			}
		}
		if len(available) == 0 {
			continue
		}

		d := Distance(location, e.seller.Location)
		missing := len(requested) - len(available)
		result = append(result, domain.MatchCandidate{
			Seller:         e.seller,
			AvailableItems: available,
			TotalPrice:     total,
			DistanceKm:     roundTo(d, 2),
			MatchScore:     d*distanceWeight + float64(missing)*missingItemWeight,
			ImageURL:       e.imageURL,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MatchScore < result[j].MatchScore
	})
	logger.Info("%d of %d eligible sellers matched", len(result), len(eligible))
	return result, nil
}

// Nearby returns active sellers within radiusKm, nearest first, with
// rating breaking distance ties.
func (s *MatchingService) Nearby(
	ctx context.Context, location domain.Coordinate, radiusKm float64,
) ([]domain.NearbySeller, error) {
	return s.within(ctx, location, radiusKm, func(items []domain.InventoryItem) ([]domain.InventoryItem, bool) {
		return items, true
	})
}

// Search returns sellers within radiusKm carrying an item whose name
// contains query, case-insensitively.
func (s *MatchingService) Search(
	ctx context.Context, query string, location domain.Coordinate, radiusKm float64,
) ([]domain.NearbySeller, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	return s.within(ctx, location, radiusKm, func(items []domain.InventoryItem) ([]domain.InventoryItem, bool) {
		var hits []domain.InventoryItem
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), q) {
				hits = append(hits, item)
			}
		}
		return hits, len(hits) > 0
	})
}

// Leaderboard returns nearby sellers by rating, highest first.
func (s *MatchingService) Leaderboard(
	ctx context.Context, location domain.Coordinate, radiusKm float64,
) ([]domain.NearbySeller, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if radiusKm <= 0 {
		radiusKm = settings.LeaderboardKm
	}

	nearby, err := s.Nearby(ctx, location, radiusKm)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].Seller.Rating > nearby[j].Seller.Rating
	})
	return capped(nearby, settings.LeaderboardLimit), nil
}

// within filters eligible sellers by radius and an item selector.
func (s *MatchingService) within(
	ctx context.Context,
	location domain.Coordinate,
	radiusKm float64,
	pick func([]domain.InventoryItem) ([]domain.InventoryItem, bool),
) ([]domain.NearbySeller, error) {
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		settings, err := s.settings.Get()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		radiusKm = settings.SearchRadiusKm
	}

	eligible, err := s.index.Eligible(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("nearby: %w", err)
	}

	result := []domain.NearbySeller{}
	for _, e := range eligible {
		items, ok := pick(e.items)
		if !ok {
			continue
		}
		d := Distance(location, e.seller.Location)
		if d > radiusKm {
			continue
		}
		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.PricePerUnit)
		}
		result = append(result, domain.NearbySeller{
			Seller:     e.seller,
			DistanceKm: roundTo(d, 2),
			Items:      items,
			ItemCount:  len(items),
			TotalPrice: total,
			ImageURL:   e.imageURL,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DistanceKm != result[j].DistanceKm {
			return result[i].DistanceKm < result[j].DistanceKm
		}
		return result[i].Seller.Rating > result[j].Seller.Rating
	})
	return result, nil
}

// uniqueNames returns item names in request order without repeats.
func uniqueNames(items []domain.DemandItem) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Name]; ok {
			continue
		}
		seen[item.Name] = struct{}{}
		names = append(names, item.Name)
	}
	return names
}

// capped returns at most n elements. A non-positive n means no cap.
func capped[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
