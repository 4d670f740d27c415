package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MatchCandidate is a transient ranking of one seller for one demand.
// It is never persisted.
type MatchCandidate struct {
	Seller Seller `json:"seller"`

	// AvailableItems are the seller's items that were requested. Never empty.
	AvailableItems []InventoryItem `json:"available_items"`

	// TotalPrice sums PricePerUnit over AvailableItems.
	TotalPrice decimal.Decimal `json:"total_price"`

	// DistanceKm is rounded to two decimal places for display.
	DistanceKm float64 `json:"distance_km"`

	// MatchScore is lower-is-better, computed from the unrounded distance.
	MatchScore float64 `json:"match_score"`

	// AIScore is the recommendation score, higher-is-better. Nil until scored.
	AIScore *float64 `json:"ai_score,omitempty"`

	// ImageURL is the seller's latest inventory image.
	ImageURL string `json:"image_url,omitempty"`
}

// ItemNames returns the names of the available items.
func (c *MatchCandidate) ItemNames() []string {
	names := make([]string, len(c.AvailableItems))
	for i := range c.AvailableItems {
		names[i] = c.AvailableItems[i].Name
	}
	return names
}

// Score returns AIScore or zero when unscored.
func (c *MatchCandidate) Score() float64 {
	if c.AIScore == nil {
		return 0
	}
	return *c.AIScore
}

// SeparatedMatches splits the top matches by seller kind.
type SeparatedMatches struct {
	Fixed  []MatchCandidate `json:"fixed_sellers"`
	Mobile []MatchCandidate `json:"mobile_sellers"`
}

// NearbySeller is a seller within a search radius.
type NearbySeller struct {
	Seller     Seller  `json:"seller"`
	DistanceKm float64 `json:"distance_km"`

	// Items holds the seller's inventory lines, or for a search only the
	// lines that matched the query.
	Items     []InventoryItem `json:"items,omitempty"`
	ItemCount int             `json:"item_count"`

	// TotalPrice sums PricePerUnit over Items.
	TotalPrice decimal.Decimal `json:"total_price"`
	ImageURL   string          `json:"image_url,omitempty"`
}

// SmartBuyResult is the outcome of the full demand-to-recommendation pipeline.
type SmartBuyResult struct {
	Demand StructuredDemand `json:"demand"`

	// Matches is the capped match_score ordering.
	Matches []MatchCandidate `json:"matches"`

	Fixed  []MatchCandidate `json:"fixed_sellers"`
	Mobile []MatchCandidate `json:"mobile_sellers"`

	// Recommendations is the ai_score ordering.
	Recommendations []MatchCandidate `json:"recommendations"`

	// UnmetItems were carried by no eligible seller and were recorded as demand.
	UnmetItems []string `json:"unmet_items,omitempty"`

	NoMatches  bool    `json:"no_matches"`
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
}

// Err returns ErrNoMatches when nothing matched, nil otherwise.
func (r *SmartBuyResult) Err() error {
	if r.NoMatches {
		return ErrNoMatches
	}
	return nil
}

// IsNoMatches reports whether err means nothing matched.
func IsNoMatches(err error) bool {
	return errors.Is(err, ErrNoMatches)
}
