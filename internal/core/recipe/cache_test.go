package recipe

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/config"
)

func newTestCache(t *testing.T, maxEntries int) (*MemoryCache, *time.Time) {
	t.Helper()

	c := NewMemoryCache(&config.CacheConfig{
		MaxEntries: maxEntries,
		RecipeTTL:  10 * time.Minute,
		RandomTTL:  5 * time.Minute,
	})

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestMemoryCachePutGet(t *testing.T) {
	c, _ := newTestCache(t, 10)

	_, ok := c.GetRecipe(1)
	assert.False(t, ok)

	c.PutRecipe(1, &provider.Recipe{ID: 1, Title: "Soup"})

	got, ok := c.GetRecipe(1)
	require.True(t, ok)
	assert.Equal(t, "Soup", got.Title)
}

func TestMemoryCacheRecipeExpiry(t *testing.T) {
	c, clock := newTestCache(t, 10)

	c.PutRecipe(1, &provider.Recipe{ID: 1})

	*clock = clock.Add(10*time.Minute - time.Second)
	_, ok := c.GetRecipe(1)
	assert.True(t, ok, "entry younger than the TTL is served")

	*clock = clock.Add(time.Second)
	_, ok = c.GetRecipe(1)
	assert.False(t, ok, "entry at the TTL boundary is absent")

	// A fresh write resurrects the key.
	c.PutRecipe(1, &provider.Recipe{ID: 1})
	_, ok = c.GetRecipe(1)
	assert.True(t, ok)
}

func TestMemoryCacheEviction(t *testing.T) {
	c, _ := newTestCache(t, 2)

	c.PutRecipe(1, &provider.Recipe{ID: 1})
	c.PutRecipe(2, &provider.Recipe{ID: 2})

	// Rewriting key 1 moves it to the back of the insertion order.
	c.PutRecipe(1, &provider.Recipe{ID: 1})

	c.PutRecipe(3, &provider.Recipe{ID: 3})

	_, ok := c.GetRecipe(2)
	assert.False(t, ok, "least recently inserted entry is evicted")
	_, ok = c.GetRecipe(1)
	assert.True(t, ok)
	_, ok = c.GetRecipe(3)
	assert.True(t, ok)
}

func TestMemoryCacheRandomBatch(t *testing.T) {
	c, clock := newTestCache(t, 10)

	_, ok := c.GetRandomBatch(3)
	assert.False(t, ok)

	batch := []Summary{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	c.PutRandomBatch(batch)

	got, ok := c.GetRandomBatch(3)
	require.True(t, ok)
	assert.Equal(t, batch[:3], got)

	_, ok = c.GetRandomBatch(6)
	assert.False(t, ok, "batch smaller than the request is a miss")

	*clock = clock.Add(5 * time.Minute)
	_, ok = c.GetRandomBatch(3)
	assert.False(t, ok, "batch at the TTL boundary is absent")
}

func TestMemoryCacheRandomBatchIsCopied(t *testing.T) {
	c, _ := newTestCache(t, 10)

	batch := []Summary{{ID: 1, Title: "original"}, {ID: 2}}
	c.PutRandomBatch(batch)
	batch[0].Title = "mutated"

	got, ok := c.GetRandomBatch(2)
	require.True(t, ok)
	assert.Equal(t, "original", got[0].Title)

	got[1].Title = "mutated too"
	again, ok := c.GetRandomBatch(2)
	require.True(t, ok)
	assert.Empty(t, again[1].Title)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(&config.CacheConfig{
		MaxEntries: 50,
		RecipeTTL:  time.Minute,
		RandomTTL:  time.Minute,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := int64(j % 20)
				c.PutRecipe(id, &provider.Recipe{ID: id, Title: fmt.Sprintf("w%d", worker)})
				c.GetRecipe(id)
				c.PutRandomBatch([]Summary{{ID: id}})
				c.GetRandomBatch(1)
			}
		}(i)
	}
	wg.Wait()

	_, ok := c.GetRecipe(0)
	assert.True(t, ok)
}
