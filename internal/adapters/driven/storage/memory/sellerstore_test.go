package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/core/domain"
)

func buildSeller(name string) func(int) domain.Seller {
	return func(total int) domain.Seller {
		return domain.Seller{
			ID:     fmt.Sprintf("V%03d", total+1),
			Name:   name,
			Kind:   domain.SellerKindFixed,
			Status: domain.SellerStatusActive,
		}
	}
}

func TestSellerStore_Insert_AssignsFromCount(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()

	first, err := store.Insert(ctx, buildSeller("Ravi"))
	require.NoError(t, err)
	second, err := store.Insert(ctx, buildSeller("Lakshmi"))
	require.NoError(t, err)

	assert.Equal(t, "V001", first.ID)
	assert.Equal(t, "V002", second.ID)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ravi", list[0].Name)
	assert.Equal(t, "Lakshmi", list[1].Name)
}

func TestSellerStore_Insert_Duplicate(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()

	fixedID := func(int) domain.Seller { return domain.Seller{ID: "V001"} }
	_, err := store.Insert(ctx, fixedID)
	require.NoError(t, err)

	_, err = store.Insert(ctx, fixedID)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSellerStore_Insert_ConcurrentIDsAreUnique(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, buildSeller("s"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

func TestSellerStore_Update(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()
	_, err := store.Insert(ctx, buildSeller("Ravi"))
	require.NoError(t, err)

	updated, err := store.Update(ctx, "V001", func(s *domain.Seller) error {
		s.Kind = domain.SellerKindMobile
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SellerKindMobile, updated.Kind)

	got, err := store.Get(ctx, "V001")
	require.NoError(t, err)
	assert.Equal(t, domain.SellerKindMobile, got.Kind)
}

func TestSellerStore_Update_CallbackErrorLeavesSellerUnchanged(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()
	_, err := store.Insert(ctx, buildSeller("Ravi"))
	require.NoError(t, err)

	_, err = store.Update(ctx, "V001", func(s *domain.Seller) error {
		s.Name = "changed"
		return domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := store.Get(ctx, "V001")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
}

func TestSellerStore_Update_NotFound(t *testing.T) {
	store := NewSellerStore()

	_, err := store.Update(context.Background(), "V404", func(*domain.Seller) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSellerStore_ReturnsCopies(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, domain.Seller{ID: "V001", Specialties: []string{"fruits"}}))

	got, err := store.Get(ctx, "V001")
	require.NoError(t, err)
	got.Specialties[0] = "mutated"

	again, err := store.Get(ctx, "V001")
	require.NoError(t, err)
	assert.Equal(t, "fruits", again.Specialties[0])
}

func TestSellerStore_Put_ReplacesInPlace(t *testing.T) {
	store := NewSellerStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, domain.Seller{ID: "V001", Name: "a"}))
	require.NoError(t, store.Put(ctx, domain.Seller{ID: "V002", Name: "b"}))
	require.NoError(t, store.Put(ctx, domain.Seller{ID: "V001", Name: "c"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Name)
}
