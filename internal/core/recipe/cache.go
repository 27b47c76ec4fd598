package recipe

import (
	"sync"
	"time"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache is the time-bounded store for raw provider payloads plus the single
// random-suggestion batch. Implementations must never return an entry older
// than its TTL, and must be safe for concurrent use by in-flight requests.
// Expired entries are treated as absent; there is no proactive sweep.
type Cache interface {
	GetRecipe(id int64) (*provider.Recipe, bool)
	PutRecipe(id int64, payload *provider.Recipe)
	GetRandomBatch(count int) ([]Summary, bool)
	PutRandomBatch(batch []Summary)
	Close() error
}

type memoryEntry struct {
	payload  *provider.Recipe
	storedAt time.Time
}

// MemoryCache is the default in-process Cache. Capacity is bounded; when full,
// the least recently inserted entry is evicted. The lock guards only in-memory
// bookkeeping and is never held across a provider or store call.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[int64]memoryEntry
	order      []int64 // insertion order, oldest first
	maxEntries int
	recipeTTL  time.Duration
	randomTTL  time.Duration

	randomBatch []Summary
	randomAt    time.Time

	now func() time.Time
}

// NewMemoryCache creates an in-process recipe cache.
func NewMemoryCache(cfg *config.CacheConfig) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[int64]memoryEntry),
		maxEntries: cfg.MaxEntries,
		recipeTTL:  cfg.RecipeTTL,
		randomTTL:  cfg.RandomTTL,
		now:        time.Now,
	}

	common.LogInfo("recipe cache initialized",
		zap.Int("max_entries", cfg.MaxEntries),
		zap.Duration("recipe_ttl", cfg.RecipeTTL),
		zap.Duration("random_ttl", cfg.RandomTTL),
	)

	return c
}

// GetRecipe returns the cached payload for id while it is younger than the
// recipe TTL. Stale entries stay in place until overwritten or evicted.
func (c *MemoryCache) GetRecipe(id int64) (*provider.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || c.now().Sub(entry.storedAt) >= c.recipeTTL {
		return nil, false
	}
	return entry.payload, true
}

// PutRecipe stores a payload with the current timestamp, overwriting any prior
// entry. Concurrent writers for the same cold id race last-writer-wins; the
// payloads are idempotent reads so the redundancy is harmless.
func (c *MemoryCache) PutRecipe(id int64, payload *provider.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; exists {
		c.removeFromOrder(id)
	} else if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[id] = memoryEntry{payload: payload, storedAt: c.now()}
	c.order = append(c.order, id)
}

// GetRandomBatch returns the first count entries of the random batch while it
// is fresh and large enough to cover the request.
func (c *MemoryCache) GetRandomBatch(count int) ([]Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.randomBatch == nil || c.now().Sub(c.randomAt) >= c.randomTTL || len(c.randomBatch) < count {
		return nil, false
	}

	out := make([]Summary, count)
	copy(out, c.randomBatch[:count])
	return out, true
}

// PutRandomBatch replaces the random batch and its timestamp.
func (c *MemoryCache) PutRandomBatch(batch []Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.randomBatch = make([]Summary, len(batch))
	copy(c.randomBatch, batch)
	c.randomAt = c.now()
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int64]memoryEntry)
	c.order = nil
	c.randomBatch = nil
	return nil
}

// evictOldest removes the least recently inserted entry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	for len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			common.LogDebug("recipe cache evicted entry", zap.Int64("recipe_id", oldest))
			return
		}
	}
}

// removeFromOrder drops id from the insertion queue. Caller holds the lock.
func (c *MemoryCache) removeFromOrder(id int64) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
