package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure DemandParser implements the interface.
var _ driving.DemandParser = (*DemandParser)(nil)

// vocabEntry is one recognisable item name.
type vocabEntry struct {
	name     string
	category domain.ItemCategory
}

// vocabulary is matched by substring, in this order.
var vocabulary = []vocabEntry{
	{"banana", domain.CategoryFruits},
	{"apple", domain.CategoryFruits},
	{"orange", domain.CategoryFruits},
	{"mango", domain.CategoryFruits},
	{"grapes", domain.CategoryFruits},
	{"strawberry", domain.CategoryFruits},
	{"pineapple", domain.CategoryFruits},
	{"tomato", domain.CategoryVegetables},
	{"onion", domain.CategoryVegetables},
	{"potato", domain.CategoryVegetables},
	{"carrot", domain.CategoryVegetables},
	{"cucumber", domain.CategoryVegetables},
	{"cauliflower", domain.CategoryVegetables},
	{"broccoli", domain.CategoryVegetables},
	{"coriander", domain.CategoryHerbs},
	{"mint", domain.CategoryHerbs},
	{"basil", domain.CategoryHerbs},
	{"parsley", domain.CategoryHerbs},
	{"rosemary", domain.CategoryHerbs},
	{"rose", domain.CategoryFlowers},
	{"marigold", domain.CategoryFlowers},
	{"sunflower", domain.CategoryFlowers},
	{"lily", domain.CategoryFlowers},
	{"tulip", domain.CategoryFlowers},
	{"almonds", domain.CategoryNuts},
	{"cashews", domain.CategoryNuts},
	{"walnuts", domain.CategoryNuts},
	{"pistachios", domain.CategoryNuts},
	{"rice", domain.CategoryGrains},
	{"wheat", domain.CategoryGrains},
	{"pulses", domain.CategoryGrains},
	{"lentils", domain.CategoryGrains},
}

// basicVocabulary is the reduced list used when enhanced extraction fails.
var basicVocabulary = []string{
	"banana", "apple", "tomato", "onion", "potato", "carrot",
	"coriander", "mint", "orange", "rose", "marigold", "mango",
}

var (
	quantityPattern = regexp.MustCompile(`(\d+)\s*(kg|g|pieces?|bunch(?:es)?|dozens?|packs?)\b`)

	freshnessWords = []string{"fresh", "organic", "local"}
	priceWords     = []string{"cheap", "expensive", "budget"}
	deliveryWords  = []string{"deliver", "delivery", "home", "house", "doorstep", "bring"}
	urgencyWords   = []string{"urgent", "asap", "quick", "fast", "immediate"}
	budgetWords    = []string{"cheap", "affordable", "budget", "economical", "low price"}
)

const (
	baseConfidence     = 0.9
	freshnessBonus     = 0.1
	priceBonus         = 0.05
	fallbackConfidence = 0.7
)

// errMalformedText makes enhanced extraction give up in favour of the fallback.
var errMalformedText = errors.New("malformed demand text")

// quantityToken is a quantity found in the text with its byte span.
type quantityToken struct {
	start, end int
	quantity   string
	unit       string
}

// DemandParser is a deterministic keyword and quantity extractor.
type DemandParser struct{}

// NewDemandParser creates a new demand parser.
func NewDemandParser() *DemandParser {
	return &DemandParser{}
}

// Parse converts free text into a structured demand.
// When no item is recognised it returns the empty demand together with
// a *domain.ParseFailure.
func (p *DemandParser) Parse(_ context.Context, text string) (*domain.StructuredDemand, error) {
	logger.Section("Demand Parsing")
	normalised := strings.ToLower(strings.TrimSpace(text))
	logger.Debug("Text: %q", normalised)

	demand, err := p.extract(text, normalised)
	if err != nil {
		logger.Warn("Enhanced extraction failed, using fallback: %v", err)
		demand = p.fallback(normalised)
	}

	if !demand.ParsedSuccessfully {
		logger.Info("No items recognised")
		return demand, domain.NewParseFailure(normalised)
	}

	logger.Info("Parsed %d items (confidence %.2f)", len(demand.Items), demand.OverallConfidence)
	return demand, nil
}

// extract runs the full vocabulary with quantity association.
// raw is checked for encoding errors, which lower-casing would hide.
func (p *DemandParser) extract(raw, text string) (*domain.StructuredDemand, error) {
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("extract: %w", errMalformedText)
	}

	tokens := findQuantities(text)
	confidence := itemConfidence(text)

	demand := &domain.StructuredDemand{
		Items:             []domain.DemandItem{},
		DeliveryRequested: containsAny(text, deliveryWords),
		IsUrgent:          containsAny(text, urgencyWords),
		BudgetConstraint:  containsAny(text, budgetWords),
		OriginalText:      text,
	}

	total := 0.0
	for _, entry := range vocabulary {
		pos := strings.Index(text, entry.name)
		if pos < 0 {
			continue
		}
		quantity, unit := domain.DefaultQuantity, "kg"
		if tok, ok := nearestQuantity(tokens, pos); ok {
			quantity, unit = tok.quantity, tok.unit
		}
		demand.Items = append(demand.Items, domain.DemandItem{
			Name:       entry.name,
			Quantity:   quantity,
			Unit:       unit,
			Category:   entry.category,
			Confidence: confidence,
		})
		total += confidence
	}

	if n := len(demand.Items); n > 0 {
		demand.OverallConfidence = total / float64(n)
		demand.ParsedSuccessfully = true
	}
	return demand, nil
}

// fallback matches the basic vocabulary at a fixed confidence.
func (p *DemandParser) fallback(text string) *domain.StructuredDemand {
	demand := &domain.StructuredDemand{
		Items:             []domain.DemandItem{},
		DeliveryRequested: strings.Contains(text, "deliver"),
		OriginalText:      text,
	}
	for _, name := range basicVocabulary {
		if !strings.Contains(text, name) {
			continue
		}
		demand.Items = append(demand.Items, domain.DemandItem{
			Name:       name,
			Quantity:   domain.DefaultQuantity,
			Unit:       "kg",
			Category:   categoryOf(name),
			Confidence: fallbackConfidence,
		})
	}
	if len(demand.Items) > 0 {
		demand.OverallConfidence = fallbackConfidence
		demand.ParsedSuccessfully = true
	}
	return demand
}

// findQuantities returns every quantity token in text order.
func findQuantities(text string) []quantityToken {
	matches := quantityPattern.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]quantityToken, 0, len(matches))
	for _, m := range matches {
		n := text[m[2]:m[3]]
		quantity, unit := normaliseUnit(n, text[m[4]:m[5]])
		tokens = append(tokens, quantityToken{start: m[0], end: m[1], quantity: quantity, unit: unit})
	}
	return tokens
}

// normaliseUnit maps a raw unit to its display quantity and unit.
func normaliseUnit(n, raw string) (quantity, unit string) {
	switch raw {
	case "kg", "g":
		return n + " " + raw, raw
	case "piece", "pieces":
		return n + " pieces", "piece"
	case "bunch", "bunches":
		return n + " bunches", "bunch"
	case "dozen", "dozens":
		return n + " dozen", "dozen"
	default:
		return n + " packs", "pack"
	}
}

// nearestQuantity picks the closest token ending before pos, or failing
// that the closest token starting after it.
func nearestQuantity(tokens []quantityToken, pos int) (quantityToken, bool) {
	var (
		best  quantityToken
		found bool
	)
	for _, tok := range tokens {
		if tok.end <= pos {
			best, found = tok, true
			continue
		}
		if !found && tok.start >= pos {
			return tok, true
		}
		break
	}
	return best, found
}

func itemConfidence(text string) float64 {
	c := baseConfidence
	if containsAny(text, freshnessWords) {
		c += freshnessBonus
	}
	if containsAny(text, priceWords) {
		c += priceBonus
	}
	return min(c, 1.0)
}

func categoryOf(name string) domain.ItemCategory {
	for _, entry := range vocabulary {
		if entry.name == name {
			return entry.category
		}
	}
	return domain.CategoryGeneral
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
