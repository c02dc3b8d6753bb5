package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisRateCache stores exchange rates as JSON documents in Redis
type RedisRateCache struct {
	client redis.UniversalClient
}

// NewRedisRateCache creates a rate cache on an existing Redis client
func NewRedisRateCache(client redis.UniversalClient) *RedisRateCache {
	return &RedisRateCache{client: client}
}

// Get returns the cached rate for key
func (c *RedisRateCache) Get(ctx context.Context, key string) (pricing.CachedRate, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return pricing.CachedRate{}, false, nil
	}
	if err != nil {
		return pricing.CachedRate{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	rate, err := decodeCachedRate(raw)
	if err != nil {
		return pricing.CachedRate{}, false, fmt.Errorf("corrupt cached rate %s: %w", key, err)
	}
	return rate, true, nil
}

// Set stores rate under key for ttl
func (c *RedisRateCache) Set(ctx context.Context, key string, rate pricing.CachedRate, ttl time.Duration) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("encode rate %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// decodeCachedRate also accepts the bare decimal strings written by older releases
func decodeCachedRate(raw string) (pricing.CachedRate, error) {
	if !strings.HasPrefix(raw, "{") {
		v, err := decimal.NewFromString(raw)
		return pricing.CachedRate{Value: v}, err
	}
	var rate pricing.CachedRate
	err := json.Unmarshal([]byte(raw), &rate)
	return rate, err
}

// Ensure RedisRateCache implements RateCache
var _ pricing.RateCache = (*RedisRateCache)(nil)
