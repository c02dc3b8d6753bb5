package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
)

// DefaultNowPaymentsAPIURL is the production API base
const DefaultNowPaymentsAPIURL = "https://api.nowpayments.io"

// NOWPayments configuration errors
var (
	ErrNowPaymentsMissingAPIKey = errors.New("nowpayments: API key is required")
	ErrNowPaymentsMissingAPIURL = errors.New("nowpayments: API URL is required")
)

// NowPaymentsConfig holds the credentials for the NOWPayments API
type NowPaymentsConfig struct {
	APIKey    string
	IPNSecret string
	APIURL    string
	Timeout   time.Duration
}

// NowPaymentsConfigFrom builds adapter configuration from application config
func NowPaymentsConfigFrom(cfg config.PaymentConfig) *NowPaymentsConfig {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultNowPaymentsAPIURL
	}
	return &NowPaymentsConfig{
		APIKey:    cfg.APIKey,
		IPNSecret: cfg.IPNSecret,
		APIURL:    apiURL,
		Timeout:   cfg.Timeout,
	}
}

// Validate validates the configuration
func (c *NowPaymentsConfig) Validate() error {
	if c.APIKey == "" {
		return ErrNowPaymentsMissingAPIKey
	}
	if c.APIURL == "" {
		return ErrNowPaymentsMissingAPIURL
	}
	return nil
}
