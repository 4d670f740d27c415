package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/core/domain"
)

func TestRequestLog_AppendAndList(t *testing.T) {
	log := NewRequestLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.DeliveryRequest{ID: "r1", Offers: []domain.Offer{{SellerID: "V001"}}}))
	require.NoError(t, log.Append(ctx, domain.DeliveryRequest{ID: "r2"}))

	list, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r1", list[0].ID)
	assert.Equal(t, "r2", list[1].ID)

	got, err := log.Get(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got.Offers, 1)
	assert.Equal(t, "V001", got.Offers[0].SellerID)
}

func TestRequestLog_AppendDuplicate(t *testing.T) {
	log := NewRequestLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.DeliveryRequest{ID: "r1"}))
	assert.ErrorIs(t, log.Append(ctx, domain.DeliveryRequest{ID: "r1"}), domain.ErrAlreadyExists)
}

func TestRequestLog_Get_NotFound(t *testing.T) {
	_, err := NewRequestLog().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
