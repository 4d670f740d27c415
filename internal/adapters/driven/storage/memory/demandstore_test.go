package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/core/domain"
)

func increment(current *domain.DemandRecord, total int) (domain.DemandRecord, error) {
	if current == nil {
		return domain.DemandRecord{ID: fmt.Sprintf("D%03d", total+1), TotalRequests: 1}, nil
	}
	current.TotalRequests++
	return *current, nil
}

func TestDemandStore_Upsert_CreatesThenIncrements(t *testing.T) {
	store := NewDemandStore()
	ctx := context.Background()

	rec, err := store.Upsert(ctx, "mango", increment)
	require.NoError(t, err)
	assert.Equal(t, "D001", rec.ID)
	assert.Equal(t, "mango", rec.ItemName)

	rec, err = store.Upsert(ctx, "mango", increment)
	require.NoError(t, err)
	assert.Equal(t, "D001", rec.ID)
	assert.Equal(t, 2, rec.TotalRequests)

	rec, err = store.Upsert(ctx, "lily", increment)
	require.NoError(t, err)
	assert.Equal(t, "D002", rec.ID)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mango", list[0].ItemName)
}

func TestDemandStore_Upsert_Concurrent(t *testing.T) {
	store := NewDemandStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, "mango", increment)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rec, err := store.Get(ctx, "mango")
	require.NoError(t, err)
	assert.Equal(t, 100, rec.TotalRequests)
}

func TestDemandStore_Upsert_CallbackError(t *testing.T) {
	store := NewDemandStore()
	boom := errors.New("boom")

	_, err := store.Upsert(context.Background(), "mango", func(*domain.DemandRecord, int) (domain.DemandRecord, error) {
		return domain.DemandRecord{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Get(context.Background(), "mango")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
