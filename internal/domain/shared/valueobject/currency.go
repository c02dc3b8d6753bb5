package valueobject

import (
	"errors"
	"strings"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (base)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	NGN Currency = "NGN" // Nigerian Naira
	CAD Currency = "CAD" // Canadian Dollar
	AUD Currency = "AUD" // Australian Dollar
	JPY Currency = "JPY" // Japanese Yen
	CNY Currency = "CNY" // Chinese Yuan
	INR Currency = "INR" // Indian Rupee
)

// BaseCurrency is the currency every price and order total is stored in
const BaseCurrency = USD

// ErrInvalidCurrency is returned for codes outside the supported set
var ErrInvalidCurrency = errors.New("unsupported currency")

var supportedCurrencies = []Currency{USD, EUR, GBP, NGN, CAD, AUD, JPY, CNY, INR}

// SupportedCurrencies returns the currencies the storefront accepts
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// ParseCurrency parses a currency code case-insensitively.
// An empty string yields the base currency.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return BaseCurrency, nil
	}
	c := Currency(code)
	if !c.IsValid() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

// IsValid returns true if the currency is supported
func (c Currency) IsValid() bool {
	for _, s := range supportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Lower returns the lowercase code, as payment providers expect it
func (c Currency) Lower() string {
	return strings.ToLower(string(c))
}
