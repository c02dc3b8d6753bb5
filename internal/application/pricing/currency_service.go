package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateQuoter returns a rate together with its provenance
type RateQuoter interface {
	Quote(ctx context.Context, from, to valueobject.Currency) (pricing.Rate, error)
}

// RateResponse is the public answer to a rate lookup
type RateResponse struct {
	Base      valueobject.Currency
	Symbol    valueobject.Currency
	Rate      decimal.Decimal
	Source    string
	UpdatedAt *time.Time
}

// CurrencyService answers public exchange-rate questions
type CurrencyService struct {
	quoter RateQuoter
	logger *zap.Logger
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(quoter RateQuoter, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{quoter: quoter, logger: logger}
}

// GetRate returns the base→symbol rate. An empty base means USD; symbol is required.
func (s *CurrencyService) GetRate(ctx context.Context, base, symbol string) (*RateResponse, error) {
	if symbol == "" {
		return nil, shared.WrapDomainError("INVALID_INPUT", "symbol is required", shared.ErrInvalidInput)
	}
	from, err := valueobject.ParseCurrency(base)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", base), shared.ErrInvalidInput)
	}
	to, err := valueobject.ParseCurrency(symbol)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", symbol), shared.ErrInvalidInput)
	}

	rate, err := s.quoter.Quote(ctx, from, to)
	if err != nil {
		return nil, UpstreamError(err)
	}

	resp := &RateResponse{Base: from, Symbol: to, Rate: rate.Value, Source: rate.Source}
	if !rate.UpdatedAt.IsZero() {
		updated := rate.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp, nil
}

// UpstreamError maps a rate provider failure onto the domain error the
// HTTP layer reports as a bad gateway
func UpstreamError(err error) error {
	msg := "Exchange rate service unavailable"
	if errors.Is(err, pricing.ErrRateLimited) {
		msg = "Exchange rate service is busy, try again shortly"
	}
	return shared.WrapDomainError("EXCHANGE_RATE_UNAVAILABLE", msg, err)
}
