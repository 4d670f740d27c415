package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSellerKind(t *testing.T) {
	tests := []struct {
		in   string
		want SellerKind
		ok   bool
	}{
		{"fixed", SellerKindFixed, true},
		{"Stationary", SellerKindFixed, true},
		{"mobile", SellerKindMobile, true},
		{" moving ", SellerKindMobile, true},
		{"flying", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSellerKind(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSellerStatus(t *testing.T) {
	s, err := ParseSellerStatus("closed")
	require.NoError(t, err)
	assert.Equal(t, SellerStatusInactive, s)

	_, err = ParseSellerStatus("maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeller_ApplyRating(t *testing.T) {
	s := Seller{Rating: 4.0, RatingCount: 1}
	s.ApplyRating(5)

	assert.InDelta(t, 4.5, s.Rating, 1e-9)
	assert.Equal(t, 2, s.RatingCount)

	s.ApplyRating(3)
	assert.InDelta(t, 4.0, s.Rating, 1e-9)
	assert.Equal(t, 3, s.RatingCount)
}

func TestSeller_Validate(t *testing.T) {
	valid := Seller{ID: "V001", Kind: SellerKindMobile, Status: SellerStatusActive, Location: Coordinate{12.97, 77.59}}
	assert.NoError(t, valid.Validate())

	badLoc := valid
	badLoc.Location = Coordinate{200, 0}
	assert.True(t, errors.Is(badLoc.Validate(), ErrDataIntegrity))

	badKind := valid
	badKind.Kind = "boat"
	assert.True(t, errors.Is(badKind.Validate(), ErrDataIntegrity))
}

func TestUniqueItems_FirstOccurrenceWins(t *testing.T) {
	items := []InventoryItem{
		{Name: "banana", PricePerUnit: decimal.NewFromInt(40)},
		{Name: "apple", PricePerUnit: decimal.NewFromInt(120)},
		{Name: "banana", PricePerUnit: decimal.NewFromInt(99)},
	}

	got := UniqueItems(items)
	require.Len(t, got, 2)
	assert.True(t, got[0].PricePerUnit.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "apple", got[1].Name)
}

func TestInventory_RecomputeAndValidate(t *testing.T) {
	inv := Inventory{
		SellerID: "V001",
		Items: []InventoryItem{
			{Name: "banana", PricePerUnit: decimal.RequireFromString("40.50")},
			{Name: "tomato", PricePerUnit: decimal.NewFromInt(30)},
		},
	}
	inv.Recompute()

	assert.Equal(t, 2, inv.TotalItems)
	assert.Equal(t, "70.5", inv.EstimatedValue.String())
	assert.NoError(t, inv.Validate())

	item, ok := inv.Find("tomato")
	require.True(t, ok)
	assert.Equal(t, "tomato", item.Name)
	_, ok = inv.Find("Tomato")
	assert.False(t, ok)

	inv.Items[0].PricePerUnit = decimal.NewFromInt(-1)
	assert.ErrorIs(t, inv.Validate(), ErrDataIntegrity)
}

func TestDemandRecord_AddRequest(t *testing.T) {
	loc := Coordinate{12.9716, 77.5946}
	rec := DemandRecord{ItemName: "mango"}

	rec.AddRequest(loc, rec.LastRequested)
	rec.AddRequest(loc, rec.LastRequested)
	rec.AddRequest(Coordinate{13, 77}, rec.LastRequested)

	assert.Equal(t, 3, rec.TotalRequests)
	require.Len(t, rec.Locations, 2)
	assert.Equal(t, 2, rec.Locations[0].RequestCount)
	assert.Equal(t, 1, rec.Locations[1].RequestCount)
}

func TestSmartBuyResult_Err(t *testing.T) {
	r := SmartBuyResult{NoMatches: true}
	assert.True(t, IsNoMatches(r.Err()))

	r.NoMatches = false
	assert.NoError(t, r.Err())
}
