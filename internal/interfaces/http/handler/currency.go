package handler

import (
	"context"
	"time"

	pricingapp "github.com/TreasureUzoma/idolomerch/internal/application/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RateLookup answers exchange-rate questions
type RateLookup interface {
	GetRate(ctx context.Context, base, symbol string) (*pricingapp.RateResponse, error)
}

// RateMeta describes where a rate came from
type RateMeta struct {
	Source        string     `json:"source" example:"exchangerate-api"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}

// RateResponse is the documented body of GET /currency/rate; data is keyed by
// the requested symbol
// @Description Exchange rate keyed by target currency
type RateResponse struct {
	Success bool                       `json:"success" example:"true"`
	Data    map[string]decimal.Decimal `json:"data" swaggertype:"object,string" example:"NGN:1550.25"`
	Meta    RateMeta                   `json:"meta"`
}

// CurrencyHandler serves exchange rates
type CurrencyHandler struct {
	BaseHandler
	rates RateLookup
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(rates RateLookup) *CurrencyHandler {
	return &CurrencyHandler{rates: rates}
}

// Rate godoc
// @Summary      Exchange rate
// @Tags         currency
// @Produce      json
// @Param        base    query  string  false  "Base currency" default(USD)
// @Param        symbol  query  string  true   "Target currency"
// @Success      200 {object} RateResponse
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /currency/rate [get]
func (h *CurrencyHandler) Rate(c *gin.Context) {
	rate, err := h.rates.GetRate(c.Request.Context(), c.Query("base"), c.Query("symbol"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithExtra(c,
		map[string]decimal.Decimal{rate.Symbol.String(): rate.Rate},
		RateMeta{Source: rate.Source, LastUpdatedAt: rate.UpdatedAt},
	)
}
