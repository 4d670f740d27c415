package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one line of a seller's stock.
type InventoryItem struct {
	// Name is the canonical item name (e.g. "banana"), matched case-sensitively.
	Name string `json:"name" toml:"name"`

	// Quantity is free text such as "5 kg".
	Quantity string `json:"quantity" toml:"quantity"`

	// Unit is the pricing unit (kg, piece, bunch...).
	Unit string `json:"unit" toml:"unit"`

	// PricePerUnit is never negative. Zero means awaiting seller input.
	PricePerUnit decimal.Decimal `json:"price_per_unit" toml:"price_per_unit"`

	// Freshness is a seller-supplied qualifier.
	Freshness string `json:"freshness,omitempty" toml:"freshness"`

	// DetectionConfidence is set when the item came from image detection.
	DetectionConfidence *float64 `json:"detection_confidence,omitempty" toml:"detection_confidence"`
}

// Inventory is the current stock snapshot of one seller.
// Replacing Items replaces the whole snapshot.
type Inventory struct {
	SellerID       string          `json:"seller_id"`
	Items          []InventoryItem `json:"items"`
	LastUpdated    time.Time       `json:"last_updated"`
	ImageURL       string          `json:"image_url,omitempty"`
	TotalItems     int             `json:"total_items"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

// Find returns the first item with exactly the given name.
func (inv *Inventory) Find(name string) (*InventoryItem, bool) {
	for i := range inv.Items {
		if inv.Items[i].Name == name {
			return &inv.Items[i], true
		}
	}
	return nil, false
}

// UniqueItems returns items deduplicated by name, keeping the first occurrence.
func UniqueItems(items []InventoryItem) []InventoryItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]InventoryItem, 0, len(items))
	for i := range items {
		if _, ok := seen[items[i].Name]; ok {
			continue
		}
		seen[items[i].Name] = struct{}{}
		out = append(out, items[i])
	}
	return out
}

// Recompute refreshes TotalItems and EstimatedValue from Items.
func (inv *Inventory) Recompute() {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].PricePerUnit)
	}
	inv.TotalItems = len(inv.Items)
	inv.EstimatedValue = total
}

// Validate checks every item has a name and a non-negative price.
func (inv *Inventory) Validate() error {
	for i := range inv.Items {
		if inv.Items[i].Name == "" {
			return IntegrityError("inventory "+inv.SellerID, "item with empty name")
		}
		if inv.Items[i].PricePerUnit.IsNegative() {
			return IntegrityError("inventory "+inv.SellerID, "negative price for "+inv.Items[i].Name)
		}
	}
	return nil
}
