// Package pricing holds the exchange-rate contracts used to price orders and
// display catalog prices in a shopper's currency.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var (
	// ErrRateUnavailable means the upstream rate service did not return a usable rate
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrRateLimited means the outbound limiter could not admit the call before the deadline
	ErrRateLimited = errors.New("exchange rate lookup rate limited")
)

// DefaultRateTTL is how long a fetched rate is reused
const DefaultRateTTL = time.Hour

// Rate is one conversion factor from From to To
type Rate struct {
	From      valueobject.Currency
	To        valueobject.Currency
	Value     decimal.Decimal
	UpdatedAt time.Time
	Source    string
}

// RateProvider returns conversion rates between supported currencies
type RateProvider interface {
	GetRate(ctx context.Context, from, to valueobject.Currency) (decimal.Decimal, error)
}

// CachedRate is a cached conversion factor and the time upstream last updated it
type CachedRate struct {
	Value     decimal.Decimal `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RateCache stores rates by key with a TTL. A miss is (zero, false, nil).
type RateCache interface {
	Get(ctx context.Context, key string) (CachedRate, bool, error)
	Set(ctx context.Context, key string, rate CachedRate, ttl time.Duration) error
}

// CacheKey is the cache key for the from→to rate
func CacheKey(from, to valueobject.Currency) string {
	return fmt.Sprintf("exchange-rate:%s:%s", from, to)
}

// Convert multiplies amount by the from→to rate and rounds to cents
func Convert(ctx context.Context, provider RateProvider, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount.Round(valueobject.MoneyScale), nil
	}
	rate, err := provider.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(valueobject.MoneyScale), nil
}
