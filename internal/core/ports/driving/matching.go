package driving

import (
	"context"

	"github.com/vendee/vendee/internal/core/domain"
)

// MatchingService ranks sellers against a demand by match score.
type MatchingService interface {
	// Match returns the top candidates, lowest match score first.
	// A nil kind considers every seller kind.
	Match(ctx context.Context, items []domain.DemandItem, location domain.Coordinate, kind *domain.SellerKind) ([]domain.MatchCandidate, error)

	// MatchSeparated splits the top matches into fixed and mobile lists.
	MatchSeparated(ctx context.Context, demand *domain.StructuredDemand, location domain.Coordinate) (*domain.SeparatedMatches, error)

	// UnmetItems returns requested names carried by no eligible seller.
	UnmetItems(ctx context.Context, items []domain.DemandItem) ([]string, error)

	// Nearby returns active sellers within radiusKm, nearest first.
	Nearby(ctx context.Context, location domain.Coordinate, radiusKm float64) ([]domain.NearbySeller, error)

	// Search returns sellers within radiusKm carrying an item whose name
	// contains query, case-insensitively.
	Search(ctx context.Context, query string, location domain.Coordinate, radiusKm float64) ([]domain.NearbySeller, error)

	// Leaderboard returns nearby sellers ordered by rating.
	Leaderboard(ctx context.Context, location domain.Coordinate, radiusKm float64) ([]domain.NearbySeller, error)
}

// RecommendationService reorders candidates by recommendation score.
type RecommendationService interface {
	// Recommend assigns AIScore to each candidate and returns the best, highest first.
	Recommend(demand *domain.StructuredDemand, candidates []domain.MatchCandidate) []domain.MatchCandidate
}
