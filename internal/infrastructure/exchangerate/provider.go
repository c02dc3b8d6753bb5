package exchangerate

import (
	"context"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SourceCache marks a rate served from the cache
const SourceCache = "cache"

// sharedFetchTimeout bounds a detached upstream fetch whose caller set no deadline
const sharedFetchTimeout = 30 * time.Second

// RateFetcher fetches a live rate
type RateFetcher interface {
	FetchRate(ctx context.Context, from, to valueobject.Currency) (*pricing.Rate, error)
}

// LookupRecorder observes rate lookups by source
type LookupRecorder interface {
	RecordRateLookup(ctx context.Context, source string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordRateLookup(context.Context, string, error) {}

// CachedProvider implements pricing.RateProvider. It reads through the rate
// cache, coalesces concurrent misses per pair and only caches successes.
type CachedProvider struct {
	fetcher RateFetcher
	cache   pricing.RateCache
	ttl     time.Duration
	group   singleflight.Group
	logger  *zap.Logger
	metrics LookupRecorder
}

// NewCachedProvider creates a provider. A non-positive ttl uses pricing.DefaultRateTTL.
func NewCachedProvider(fetcher RateFetcher, cache pricing.RateCache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = pricing.DefaultRateTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: nopRecorder{},
	}
}

// SetMetrics installs a lookup recorder
func (p *CachedProvider) SetMetrics(m LookupRecorder) {
	if m != nil {
		p.metrics = m
	}
}

// GetRate returns the from→to rate
func (p *CachedProvider) GetRate(ctx context.Context, from, to valueobject.Currency) (decimal.Decimal, error) {
	r, err := p.Quote(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Value, nil
}

// Quote returns the from→to rate together with where it came from
func (p *CachedProvider) Quote(ctx context.Context, from, to valueobject.Currency) (pricing.Rate, error) {
	if from == to {
		return pricing.Rate{From: from, To: to, Value: decimal.NewFromInt(1), Source: "identity"}, nil
	}

	key := pricing.CacheKey(from, to)
	cached, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("Rate cache read failed, fetching directly", zap.String("key", key), zap.Error(err))
	} else if ok {
		p.metrics.RecordRateLookup(ctx, SourceCache, nil)
		return pricing.Rate{From: from, To: to, Value: cached.Value, UpdatedAt: cached.UpdatedAt, Source: SourceCache}, nil
	}

	fetched, err := p.fetchShared(ctx, key, from, to)
	if err != nil {
		p.logger.Warn("Exchange rate lookup failed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		p.metrics.RecordRateLookup(ctx, SourceName, err)
		return pricing.Rate{}, err
	}
	p.metrics.RecordRateLookup(ctx, fetched.Source, nil)
	return *fetched, nil
}

// Refresh fetches the from→to rate and overwrites the cached value
func (p *CachedProvider) Refresh(ctx context.Context, from, to valueobject.Currency) error {
	if from == to {
		return nil
	}
	_, err := p.fetchShared(ctx, pricing.CacheKey(from, to), from, to)
	p.metrics.RecordRateLookup(ctx, SourceName, err)
	return err
}

// detach drops ctx's cancellation but keeps its deadline, so the limiter can
// still refuse a wait that would outlast the caller
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithTimeout(detached, sharedFetchTimeout)
}

// fetchShared runs one upstream fetch per key on a detached context. Each
// caller stops waiting when its own context ends.
func (p *CachedProvider) fetchShared(ctx context.Context, key string, from, to valueobject.Currency) (*pricing.Rate, error) {
	ch := p.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := detach(ctx)
		defer cancel()

		fetched, err := p.fetcher.FetchRate(fetchCtx, from, to)
		if err != nil {
			return nil, err
		}
		rate := *fetched
		if rate.UpdatedAt.IsZero() {
			rate.UpdatedAt = time.Now().UTC()
		}
		entry := pricing.CachedRate{Value: rate.Value, UpdatedAt: rate.UpdatedAt}
		if err := p.cache.Set(fetchCtx, key, entry, p.ttl); err != nil {
			p.logger.Warn("Rate cache write failed", zap.String("key", key), zap.Error(err))
		}
		return &rate, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rate := *res.Val.(*pricing.Rate)
		return &rate, nil
	}
}

// Ensure CachedProvider implements RateProvider
var _ pricing.RateProvider = (*CachedProvider)(nil)
