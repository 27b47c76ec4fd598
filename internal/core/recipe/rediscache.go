package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache is a Cache backed by Redis, for deployments running more than one
// instance. TTL enforcement is delegated to Redis key expiry; capacity is left
// to the server's eviction policy. Read or decode failures degrade to a miss
// so a flaky Redis never takes recipe reads down with it.
type RedisCache struct {
	client    *redis.Client
	ctx       context.Context
	recipeTTL time.Duration
	randomTTL time.Duration
}

// NewRedisCache creates a Redis-backed recipe cache and verifies connectivity.
func NewRedisCache(cfg *config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client:    client,
		ctx:       ctx,
		recipeTTL: cfg.RecipeTTL,
		randomTTL: cfg.RandomTTL,
	}, nil
}

// GetRecipe returns the cached payload for id, or a miss.
func (c *RedisCache) GetRecipe(id int64) (*provider.Recipe, bool) {
	data, err := c.client.Get(c.ctx, recipeKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("redis recipe read failed", zap.Int64("recipe_id", id), zap.Error(err))
		}
		return nil, false
	}

	var payload provider.Recipe
	if err := json.Unmarshal(data, &payload); err != nil {
		common.LogWarn("redis recipe entry corrupt", zap.Int64("recipe_id", id), zap.Error(err))
		return nil, false
	}
	return &payload, true
}

// PutRecipe stores a payload under the recipe TTL.
func (c *RedisCache) PutRecipe(id int64, payload *provider.Recipe) {
	data, err := json.Marshal(payload)
	if err != nil {
		common.LogWarn("failed to marshal recipe payload", zap.Int64("recipe_id", id), zap.Error(err))
		return
	}
	if err := c.client.Set(c.ctx, recipeKey(id), data, c.recipeTTL).Err(); err != nil {
		common.LogWarn("redis recipe write failed", zap.Int64("recipe_id", id), zap.Error(err))
	}
}

// GetRandomBatch returns the first count entries of the cached random batch.
func (c *RedisCache) GetRandomBatch(count int) ([]Summary, bool) {
	data, err := c.client.Get(c.ctx, randomBatchKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("redis random batch read failed", zap.Error(err))
		}
		return nil, false
	}

	var batch []Summary
	if err := json.Unmarshal(data, &batch); err != nil {
		common.LogWarn("redis random batch entry corrupt", zap.Error(err))
		return nil, false
	}
	if len(batch) < count {
		return nil, false
	}

	out := make([]Summary, count)
	copy(out, batch[:count])
	return out, true
}

// PutRandomBatch replaces the random batch under the random TTL.
func (c *RedisCache) PutRandomBatch(batch []Summary) {
	data, err := json.Marshal(batch)
	if err != nil {
		common.LogWarn("failed to marshal random batch", zap.Error(err))
		return
	}
	if err := c.client.Set(c.ctx, randomBatchKey, data, c.randomTTL).Err(); err != nil {
		common.LogWarn("redis random batch write failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

const randomBatchKey = "recipes:random"

func recipeKey(id int64) string {
	return "recipe:" + strconv.FormatInt(id, 10)
}
