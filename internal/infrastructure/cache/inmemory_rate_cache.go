package cache

import (
	"context"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
)

// InMemoryRateCache is a process-local RateCache
type InMemoryRateCache struct {
	rates *ttlMap[pricing.CachedRate]
}

// NewInMemoryRateCache creates an empty in-memory rate cache
func NewInMemoryRateCache() *InMemoryRateCache {
	return &InMemoryRateCache{rates: newTTLMap[pricing.CachedRate]()}
}

// Get returns the cached rate for key
func (c *InMemoryRateCache) Get(_ context.Context, key string) (pricing.CachedRate, bool, error) {
	rate, ok := c.rates.get(key)
	return rate, ok, nil
}

// Set stores rate under key for ttl
func (c *InMemoryRateCache) Set(_ context.Context, key string, rate pricing.CachedRate, ttl time.Duration) error {
	c.rates.set(key, rate, ttl)
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryRateCache) Close() error {
	c.rates.close()
	return nil
}

// Ensure InMemoryRateCache implements RateCache
var _ pricing.RateCache = (*InMemoryRateCache)(nil)
