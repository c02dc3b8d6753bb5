package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	dashboardapp "github.com/TreasureUzoma/idolomerch/internal/application/dashboard"
	pricingapp "github.com/TreasureUzoma/idolomerch/internal/application/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSummaryProvider struct {
	mock.Mock
}

func (m *MockSummaryProvider) GetSummary(ctx context.Context, tenantID uuid.UUID) (*dashboardapp.Summary, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboardapp.Summary), args.Error(1)
}

type MockRateLookup struct {
	mock.Mock
}

func (m *MockRateLookup) GetRate(ctx context.Context, base, symbol string) (*pricingapp.RateResponse, error) {
	args := m.Called(ctx, base, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.RateResponse), args.Error(1)
}

func TestDashboardHandler_Summary(t *testing.T) {
	summary := new(MockSummaryProvider)
	router := newRouter()
	router.GET("/admin/summary", NewDashboardHandler(summary).Summary)

	summary.On("GetSummary", mock.Anything, testTenant).Return(&dashboardapp.Summary{
		TotalProducts: 4,
		TotalOrders:   9,
		TotalRevenue:  decimal.RequireFromString("120.5"),
		SalesOverTime: []dashboardapp.SalesPoint{{Date: "2026-10-17", Amount: decimal.Zero}},
	}, nil)

	w := doJSON(router, http.MethodGet, "/admin/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalOrders":9`)
	assert.Contains(t, w.Body.String(), `"date":"2026-10-17"`)
}

func TestCurrencyHandler_Rate(t *testing.T) {
	rates := new(MockRateLookup)
	router := newRouter()
	router.GET("/currency/rate", NewCurrencyHandler(rates).Rate)

	updated := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	rates.On("GetRate", mock.Anything, "", "NGN").Return(&pricingapp.RateResponse{
		Base: valueobject.Currency("USD"), Symbol: valueobject.Currency("NGN"),
		Rate: decimal.RequireFromString("1550.25"), Source: "cache", UpdatedAt: &updated,
	}, nil)
	rates.On("GetRate", mock.Anything, "", "").
		Return(nil, shared.WrapDomainError("INVALID_INPUT", "symbol is required", shared.ErrInvalidInput))
	rates.On("GetRate", mock.Anything, "", "EUR").
		Return(nil, pricingapp.UpstreamError(errors.New("timeout")))

	w := doJSON(router, http.MethodGet, "/currency/rate?symbol=NGN", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    struct {
			Source        string    `json:"source"`
			LastUpdatedAt time.Time `json:"last_updated_at"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.True(t, body.Success)
	assert.Equal(t, map[string]string{"NGN": "1550.25"}, body.Data)
	assert.Equal(t, "cache", body.Meta.Source)
	assert.True(t, updated.Equal(body.Meta.LastUpdatedAt))
	assert.Contains(t, w.Body.String(), `"NGN":"1550.25"`)

	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodGet, "/currency/rate", nil).Code)

	w = doJSON(router, http.MethodGet, "/currency/rate?symbol=EUR", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "EXCHANGE_RATE_UNAVAILABLE", decode(t, w).Error.Code)
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	router := newRouter()
	router.GET("/health", NewHealthHandler("idolomerch", "1.0.0", map[string]HealthCheck{"database": ok}).Health)
	router.GET("/health-degraded", NewHealthHandler("idolomerch", "1.0.0", map[string]HealthCheck{"database": ok, "redis": down}).Health)

	w := doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"database":"up"`)

	w = doJSON(router, http.MethodGet, "/health-degraded", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}
