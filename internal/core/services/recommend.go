package services

import (
	"sort"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
)

// Ensure RecommendationService implements the interface.
var _ driving.RecommendationService = (*RecommendationService)(nil)

// Recommendation weights.
const (
	scoreWithin1Km      = 30.0
	scoreWithin2Km      = 20.0
	scoreWithin5Km      = 10.0
	ratingWeight        = 10.0
	typePreferenceBonus = 15.0
	urgentMobileBonus   = 10.0
	budgetBonus         = 5.0
)

// RecommendationService scores candidates on distance, rating and fit with
// the buyer's delivery, urgency and budget flags.
type RecommendationService struct {
	limit int
}

// NewRecommendationService creates a recommendation service returning at
// most limit candidates. A non-positive limit uses the default of 5.
func NewRecommendationService(limit int) *RecommendationService {
	if limit <= 0 {
		limit = domain.DefaultEngineSettings().RecommendLimit
	}
	return &RecommendationService{limit: limit}
}

// Recommend scores every candidate and returns the best, highest first.
// Equal scores keep their input order. The input slice is not modified.
func (s *RecommendationService) Recommend(
	demand *domain.StructuredDemand, candidates []domain.MatchCandidate,
) []domain.MatchCandidate {
	scored := make([]domain.MatchCandidate, len(candidates))
	for i, c := range candidates {
		score := Score(demand, &c)
		c.AIScore = &score
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].AIScore > *scored[j].AIScore
	})
	return capped(scored, s.limit)
}

// Score computes the recommendation score of one candidate.
// It uses the display distance, so a seller at 1.004 km scores as 1 km.
func Score(demand *domain.StructuredDemand, c *domain.MatchCandidate) float64 {
	score := 0.0

	switch d := c.DistanceKm; {
	case d <= 1:
		score += scoreWithin1Km
	case d <= 2:
		score += scoreWithin2Km
	case d <= 5:
		score += scoreWithin5Km
	}

	score += c.Seller.Rating * ratingWeight

	mobile := c.Seller.IsMobile()
	if demand.DeliveryRequested == mobile {
		score += typePreferenceBonus
	}
	if demand.IsUrgent && mobile {
		score += urgentMobileBonus
	}
	// Placeholder until price data is weighed.
	if demand.BudgetConstraint {
		score += budgetBonus
	}
	return score
}
