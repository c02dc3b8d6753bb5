package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Stores bundles the caches the server needs. Close releases whichever
// backend was chosen.
type Stores struct {
	Idempotency shared.IdempotencyStore
	Rates       pricing.RateCache
	// Redis is nil when the in-memory fallback is in use
	Redis   *redis.Client
	closers []io.Closer
}

// Close releases the stores and the Redis client
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StoreFactory creates cache stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemoryStores creates process-local stores
func InMemoryStores() *Stores {
	idem := NewInMemoryIdempotencyStore()
	rates := NewInMemoryRateCache()
	return &Stores{
		Idempotency: idem,
		Rates:       rates,
		closers:     []io.Closer{idem, rates},
	}
}

// CreateStores connects to Redis and falls back to in-memory stores when
// Redis is unreachable and fallback is allowed
func (f *StoreFactory) CreateStores() (*Stores, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis cache", zap.String("addr", f.redisConfig.Addr()))
		return &Stores{
			Idempotency: NewRedisIdempotencyStore(client, DefaultIdempotencyPrefix),
			Rates:       NewRedisRateCache(client),
			Redis:       client,
			closers:     []io.Closer{client},
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Webhook idempotency will not be shared between instances.",
		zap.Error(err),
	)
	return InMemoryStores(), nil
}
