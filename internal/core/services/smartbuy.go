package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure SmartBuyService implements the interface.
var _ driving.SmartBuyService = (*SmartBuyService)(nil)

// messageListLimit is how many recommendations the summary message names.
const messageListLimit = 3

// SmartBuyService runs parse, match, recommend, and unmet-demand tracking.
type SmartBuyService struct {
	parser    driving.DemandParser
	matcher   driving.MatchingService
	recommend driving.RecommendationService
	tracker   driving.DemandTracker
	settings  SettingsProvider
}

// NewSmartBuyService creates a new SmartBuy service.
// The tracker is optional (can be nil); without it unmet demand is not recorded.
func NewSmartBuyService(
	parser driving.DemandParser,
	matcher driving.MatchingService,
	recommend driving.RecommendationService,
	tracker driving.DemandTracker,
	settings SettingsProvider,
) *SmartBuyService {
	if settings == nil {
		settings = StaticSettings(domain.DefaultEngineSettings())
	}
	return &SmartBuyService{
		parser:    parser,
		matcher:   matcher,
		recommend: recommend,
		tracker:   tracker,
		settings:  settings,
	}
}

// SmartBuy turns free text into ranked sellers.
// Finding no sellers is not an error: the result has NoMatches set.
func (s *SmartBuyService) SmartBuy(
	ctx context.Context, text string, location domain.Coordinate,
) (*domain.SmartBuyResult, error) {
	logger.Section("SmartBuy")
	if err := location.Validate(); err != nil {
		return nil, err
	}

	demand, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	if !demand.ParsedSuccessfully {
		return nil, domain.NewParseFailure(demand.OriginalText)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	matches, err := s.matcher.Match(ctx, demand.Items, location, nil)
	if err != nil {
		return nil, fmt.Errorf("smartbuy: %w", err)
	}
	separated := separate(matches, settings.Matching, demand.DeliveryRequested)

	shortlist := make([]domain.MatchCandidate, 0, len(separated.Fixed)+len(separated.Mobile))
	shortlist = append(shortlist, separated.Fixed...)
	shortlist = append(shortlist, separated.Mobile...)
	recommendations := s.recommend.Recommend(demand, shortlist)

	unmet, err := s.matcher.UnmetItems(ctx, demand.Items)
	if err != nil {
		return nil, fmt.Errorf("smartbuy: %w", err)
	}

	result := &domain.SmartBuyResult{
		Demand:          *demand,
		Matches:         matches,
		Fixed:           separated.Fixed,
		Mobile:          separated.Mobile,
		Recommendations: recommendations,
		UnmetItems:      unmet,
		NoMatches:       len(matches) == 0,
		Confidence:      demand.OverallConfidence,
	}
	result.Message = Summarize(demand, recommendations)

	if len(unmet) > 0 {
		logger.Info("Unmet items: %v", unmet)
		if s.tracker != nil {
			if err := s.tracker.Record(ctx, unmet, location); err != nil {
				return nil, fmt.Errorf("track unmet demand: %w", err)
			}
		}
	}

	logger.Info("Matches: %d, recommendations: %d", len(matches), len(recommendations))
	return result, nil
}

// Summarize renders the human-readable SmartBuy message.
func Summarize(demand *domain.StructuredDemand, recommendations []domain.MatchCandidate) string {
	items := strings.Join(demand.ItemNames(), ", ")
	if len(recommendations) == 0 {
		return fmt.Sprintf(
			"Sorry, I couldn't find any sellers selling %s in your area. Please try a different location or items.",
			items)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d great sellers for your request: %s\n\n", len(recommendations), items)
	if demand.DeliveryRequested {
		b.WriteString("Delivery available:\n")
	} else {
		b.WriteString("Pickup available:\n")
	}

	for i, c := range capped(recommendations, messageListLimit) {
		fmt.Fprintf(&b, "%d. %s - %.2fkm away, rating %.1f\n", i+1, c.Seller.Name, c.DistanceKm, c.Seller.Rating)
		fmt.Fprintf(&b, "   %s\n", c.Seller.Kind.Description())
		fmt.Fprintf(&b, "   %d of your items available, total %s\n", len(c.AvailableItems), c.TotalPrice.StringFixed(2))
	}

	if demand.IsUrgent {
		b.WriteString("\nUrgent request detected: mobile sellers can deliver faster!\n")
	}
	if demand.BudgetConstraint {
		b.WriteString("\nBudget tip: consider visiting fixed sellers for better prices.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
