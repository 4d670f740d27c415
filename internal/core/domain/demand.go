package domain

import "strings"

// ItemCategory groups vocabulary items.
type ItemCategory string

// Item categories known to the demand parser.
const (
	CategoryFruits     ItemCategory = "fruits"
	CategoryVegetables ItemCategory = "vegetables"
	CategoryHerbs      ItemCategory = "herbs"
	CategoryFlowers    ItemCategory = "flowers"
	CategoryNuts       ItemCategory = "nuts"
	CategoryGrains     ItemCategory = "grains"
	CategoryGeneral    ItemCategory = "general"
)

// DefaultQuantity is used when a demand item has no quantity token.
const DefaultQuantity = "1 kg"

// DemandItem is one item a buyer asked for.
type DemandItem struct {
	// Name is the canonical vocabulary name.
	Name string `json:"name"`

	// Quantity is display text such as "2 kg" or "6 pieces".
	Quantity string `json:"quantity"`

	// Unit is the normalised unit (kg, g, piece, bunch, dozen, pack).
	Unit string `json:"unit"`

	// Category is the vocabulary group the name belongs to.
	Category ItemCategory `json:"category"`

	// Confidence is the parser's confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// StructuredDemand is the parsed form of a free-text demand.
type StructuredDemand struct {
	Items             []DemandItem `json:"items"`
	DeliveryRequested bool         `json:"delivery_requested"`
	IsUrgent          bool         `json:"is_urgent"`
	BudgetConstraint  bool         `json:"budget_constraint"`
	OverallConfidence float64      `json:"overall_confidence"`

	// ParsedSuccessfully is true iff Items is non-empty.
	ParsedSuccessfully bool `json:"parsed_successfully"`

	// OriginalText is the normalised input.
	OriginalText string `json:"original_text"`
}

// ItemNames returns the requested names in order.
func (d *StructuredDemand) ItemNames() []string {
	names := make([]string, len(d.Items))
	for i := range d.Items {
		names[i] = d.Items[i].Name
	}
	return names
}

// Summary returns a short human-readable list like "2 kg banana, 1 kg tomato".
func (d *StructuredDemand) Summary() string {
	parts := make([]string, len(d.Items))
	for i := range d.Items {
		parts[i] = d.Items[i].Quantity + " " + d.Items[i].Name
	}
	return strings.Join(parts, ", ")
}
