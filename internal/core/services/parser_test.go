package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/core/domain"
)

func parse(t *testing.T, text string) (*domain.StructuredDemand, error) {
	t.Helper()
	return NewDemandParser().Parse(context.Background(), text)
}

func TestDemandParser_Parse_QuantityPerItem(t *testing.T) {
	demand, err := parse(t, "I want 2 kg bananas and 1 kg tomatoes")
	require.NoError(t, err)

	require.Len(t, demand.Items, 2)
	assert.Equal(t, "banana", demand.Items[0].Name)
	assert.Equal(t, "2 kg", demand.Items[0].Quantity)
	assert.Equal(t, domain.CategoryFruits, demand.Items[0].Category)
	assert.Equal(t, "tomato", demand.Items[1].Name)
	assert.Equal(t, "1 kg", demand.Items[1].Quantity)
	assert.Equal(t, domain.CategoryVegetables, demand.Items[1].Category)
	assert.True(t, demand.ParsedSuccessfully)
	assert.InDelta(t, 0.9, demand.OverallConfidence, 1e-9)
}

func TestDemandParser_Parse_QuantityAfterItem(t *testing.T) {
	demand, err := parse(t, "mangoes, 3 dozen please")
	require.NoError(t, err)

	require.Len(t, demand.Items, 1)
	assert.Equal(t, "3 dozen", demand.Items[0].Quantity)
	assert.Equal(t, "dozen", demand.Items[0].Unit)
}

func TestDemandParser_Parse_UnitNormalisation(t *testing.T) {
	tests := []struct {
		text     string
		quantity string
		unit     string
	}{
		{"500 g mint", "500 g", "g"},
		{"6 pieces cucumber", "6 pieces", "piece"},
		{"1 piece of pineapple", "1 pieces", "piece"},
		{"2 bunches coriander", "2 bunches", "bunch"},
		{"2 bunch basil", "2 bunches", "bunch"},
		{"1 bunch coriander", "1 bunches", "bunch"},
		{"1 dozen roses", "1 dozen", "dozen"},
		{"4 packs almonds", "4 packs", "pack"},
		{"potatoes", "1 kg", "kg"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			demand, err := parse(t, tt.text)
			require.NoError(t, err)
			require.NotEmpty(t, demand.Items)
			assert.Equal(t, tt.quantity, demand.Items[0].Quantity)
			assert.Equal(t, tt.unit, demand.Items[0].Unit)
		})
	}
}

func TestDemandParser_Parse_GramsDoNotMatchInsideWords(t *testing.T) {
	demand, err := parse(t, "2 grapes")
	require.NoError(t, err)

	require.Len(t, demand.Items, 1)
	assert.Equal(t, "grapes", demand.Items[0].Name)
	assert.Equal(t, domain.DefaultQuantity, demand.Items[0].Quantity)
}

func TestDemandParser_Parse_Flags(t *testing.T) {
	demand, err := parse(t, "  URGENT: deliver cheap onions to my doorstep ")
	require.NoError(t, err)

	assert.True(t, demand.DeliveryRequested)
	assert.True(t, demand.IsUrgent)
	assert.True(t, demand.BudgetConstraint)
	assert.Equal(t, "urgent: deliver cheap onions to my doorstep", demand.OriginalText)
}

func TestDemandParser_Parse_NoFlags(t *testing.T) {
	demand, err := parse(t, "carrots")
	require.NoError(t, err)

	assert.False(t, demand.DeliveryRequested)
	assert.False(t, demand.IsUrgent)
	assert.False(t, demand.BudgetConstraint)
}

func TestDemandParser_Parse_Confidence(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"carrots", 0.9},
		{"fresh carrots", 1.0},
		{"cheap carrots", 0.95},
		{"fresh organic cheap carrots", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			demand, err := parse(t, tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, demand.Items[0].Confidence, 1e-9)
			assert.InDelta(t, tt.want, demand.OverallConfidence, 1e-9)
		})
	}
}

func TestDemandParser_Parse_VocabularyOrder(t *testing.T) {
	demand, err := parse(t, "tomato and banana")
	require.NoError(t, err)

	require.Len(t, demand.Items, 2)
	assert.Equal(t, []string{"banana", "tomato"}, demand.ItemNames())
}

func TestDemandParser_Parse_SubstringMatching(t *testing.T) {
	demand, err := parse(t, "rosemary")
	require.NoError(t, err)

	assert.Equal(t, []string{"rosemary", "rose"}, demand.ItemNames())
}

func TestDemandParser_Parse_NoItems(t *testing.T) {
	demand, err := parse(t, "hello there")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParseFailure))

	var pf *domain.ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Len(t, pf.Suggestions, 3)

	require.NotNil(t, demand)
	assert.False(t, demand.ParsedSuccessfully)
	assert.Empty(t, demand.Items)
	assert.Zero(t, demand.OverallConfidence)
}

func TestDemandParser_Parse_EmptyText(t *testing.T) {
	_, err := parse(t, "   ")
	assert.ErrorIs(t, err, domain.ErrParseFailure)
}

func TestDemandParser_Parse_FallbackOnMalformedText(t *testing.T) {
	demand, err := parse(t, "2 kg banana\xff deliver fast")
	require.NoError(t, err)

	require.Len(t, demand.Items, 1)
	assert.Equal(t, "banana", demand.Items[0].Name)
	assert.Equal(t, domain.DefaultQuantity, demand.Items[0].Quantity)
	assert.InDelta(t, 0.7, demand.Items[0].Confidence, 1e-9)
	assert.InDelta(t, 0.7, demand.OverallConfidence, 1e-9)
	assert.True(t, demand.DeliveryRequested)
	assert.False(t, demand.IsUrgent)
}

func TestDemandParser_Parse_FallbackVocabularyIsReduced(t *testing.T) {
	_, err := parse(t, "walnuts\xff")
	assert.ErrorIs(t, err, domain.ErrParseFailure)
}
