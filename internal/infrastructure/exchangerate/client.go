// Package exchangerate fetches currency conversion rates from
// exchangerate-api.com, rate-limited and cached.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// SourceName identifies rates fetched from the upstream API
	SourceName = "exchangerate-api"

	maxResponseSize = 64 * 1024
	resultSuccess   = "success"
)

// pairResponse is the body of GET /v6/{key}/pair/{from}/{to}
type pairResponse struct {
	Result            string          `json:"result"`
	ErrorType         string          `json:"error-type"`
	BaseCode          string          `json:"base_code"`
	TargetCode        string          `json:"target_code"`
	ConversionRate    decimal.Decimal `json:"conversion_rate"`
	TimeLastUpdateUTC string          `json:"time_last_update_utc"`
}

// Client calls the pair endpoint. Every request first takes a token from
// the limiter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client from configuration
func NewClient(cfg config.ExchangeRateConfig) *Client {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = max(1, int(rps))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchRate returns the live from→to rate
func (c *Client) FetchRate(ctx context.Context, from, to valueobject.Currency) (*pricing.Rate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", pricing.ErrRateLimited, err)
	}

	url := fmt.Sprintf("%s/v6/%s/pair/%s/%s", c.baseURL, c.apiKey, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("exchangerate: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pricing.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", pricing.ErrRateUnavailable, err)
	}

	var parsed pairResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: HTTP %d", pricing.ErrRateUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: invalid response body: %v", pricing.ErrRateUnavailable, err)
	}
	if parsed.Result != resultSuccess {
		errorType := parsed.ErrorType
		if errorType == "" {
			errorType = "unknown-error"
		}
		return nil, fmt.Errorf("%w: %s", pricing.ErrRateUnavailable, errorType)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", pricing.ErrRateUnavailable, resp.StatusCode)
	}
	if !parsed.ConversionRate.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive rate %s", pricing.ErrRateUnavailable, parsed.ConversionRate)
	}

	updatedAt, err := time.Parse(time.RFC1123Z, parsed.TimeLastUpdateUTC)
	if err != nil {
		updatedAt = time.Now().UTC()
	}

	return &pricing.Rate{
		From:      from,
		To:        to,
		Value:     parsed.ConversionRate,
		UpdatedAt: updatedAt,
		Source:    SourceName,
	}, nil
}
