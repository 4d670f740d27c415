package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("storage.driver", "sqlite"))
	require.NoError(t, store.Set("matching.top_matches", int64(4)))
	require.NoError(t, store.Set("dispatch.max_retries", 3.0))
	require.NoError(t, store.Set("detection.enabled", true))
	require.NoError(t, store.Set("events.brokers", []any{"a:9092", 7, "b:9092"}))

	assert.Equal(t, "sqlite", store.GetString("storage.driver"))
	assert.Equal(t, 4, store.GetInt("matching.top_matches"))
	assert.Equal(t, 3, store.GetInt("dispatch.max_retries"))
	assert.True(t, store.GetBool("detection.enabled"))
	assert.Equal(t, []string{"a:9092", "b:9092"}, store.GetStringSlice("events.brokers"))
}

func TestConfigStore_WrongTypesReturnZero(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", struct{}{}))

	assert.Equal(t, "", store.GetString("k"))
	assert.Equal(t, 0, store.GetInt("k"))
	assert.False(t, store.GetBool("k"))
	assert.Nil(t, store.GetStringSlice("k"))
	assert.Equal(t, 0.0, store.GetFloat("k"))
}

func TestConfigStore_SaveAndLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("search.radius_km", 2.5))
	require.NoError(t, store.Set("matching.top_matches", 3))
	require.NoError(t, store.Set("leaderboard.radius_km", int64(5)))
	require.NoError(t, store.Set("storage.driver", "sqlite"))

	assert.Equal(t, 2.5, store.GetFloat("search.radius_km"))
	assert.Equal(t, 3.0, store.GetFloat("matching.top_matches"))
	assert.Equal(t, 5.0, store.GetFloat("leaderboard.radius_km"))
	assert.Equal(t, 0.0, store.GetFloat("storage.driver"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
			_ = store.GetInt("counter")
			_ = store.GetFloat("counter")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
