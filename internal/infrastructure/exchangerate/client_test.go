package exchangerate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(config.ExchangeRateConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RateLimitRPS:   100,
		RateLimitBurst: 10,
		Timeout:        2 * time.Second,
	}), &hits
}

func TestClient_FetchRate(t *testing.T) {
	t.Run("parses a successful pair response", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v6/test-key/pair/EUR/USD", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":"success","base_code":"EUR","target_code":"USD",` +
				`"conversion_rate":1.0834,"time_last_update_utc":"Fri, 03 May 2024 00:00:01 +0000"}`))
		})

		r, err := client.FetchRate(context.Background(), valueobject.EUR, valueobject.USD)

		require.NoError(t, err)
		assert.Equal(t, "1.0834", r.Value.String())
		assert.Equal(t, SourceName, r.Source)
		assert.Equal(t, 2024, r.UpdatedAt.Year())
	})

	t.Run("result error maps to ErrRateUnavailable with error type", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		})

		_, err := client.FetchRate(context.Background(), valueobject.EUR, valueobject.USD)

		assert.ErrorIs(t, err, pricing.ErrRateUnavailable)
		assert.Contains(t, err.Error(), "unsupported-code")
	})

	t.Run("non-2xx status without body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.FetchRate(context.Background(), valueobject.EUR, valueobject.USD)
		assert.ErrorIs(t, err, pricing.ErrRateUnavailable)
	})

	t.Run("limiter wait past deadline is ErrRateLimited", func(t *testing.T) {
		client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":"success","conversion_rate":1.1}`))
		})
		client.limiter.SetLimit(0.001)
		client.limiter.SetBurst(1)

		_, err := client.FetchRate(context.Background(), valueobject.EUR, valueobject.USD)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = client.FetchRate(ctx, valueobject.EUR, valueobject.USD)

		assert.True(t, errors.Is(err, pricing.ErrRateLimited))
		assert.Equal(t, int32(1), hits.Load())
	})
}
