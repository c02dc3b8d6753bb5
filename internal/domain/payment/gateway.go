package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Gateway Errors
// ---------------------------------------------------------------------------

var (
	ErrInvoiceInvalidOrderID  = errors.New("payment: invalid order ID")
	ErrInvoiceInvalidAmount   = errors.New("payment: invalid invoice amount")
	ErrInvoiceInvalidCurrency = errors.New("payment: invalid invoice currency")
	ErrInvoiceInvalidIPNURL   = errors.New("payment: invalid IPN callback URL")

	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured")
	ErrGatewayUnavailable     = errors.New("payment: gateway temporarily unavailable")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
)

// InvoiceRequest asks the provider for a hosted checkout invoice
type InvoiceRequest struct {
	// OrderID is our order id, echoed back in IPN callbacks
	OrderID uuid.UUID
	// Amount is the price in PriceCurrency
	Amount decimal.Decimal
	// PriceCurrency is the lower-case fiat code, e.g. "usd"
	PriceCurrency string
	// Description is shown to the payer
	Description string
	// IPNCallbackURL receives status callbacks
	IPNCallbackURL string
	SuccessURL     string
	CancelURL      string
}

// Validate validates the invoice request
func (r *InvoiceRequest) Validate() error {
	if r.OrderID == uuid.Nil {
		return ErrInvoiceInvalidOrderID
	}
	if !r.Amount.IsPositive() {
		return ErrInvoiceInvalidAmount
	}
	if r.PriceCurrency == "" {
		return ErrInvoiceInvalidCurrency
	}
	if r.IPNCallbackURL == "" {
		return ErrInvoiceInvalidIPNURL
	}
	return nil
}

// Invoice is the provider's answer to an InvoiceRequest
type Invoice struct {
	ID         string
	InvoiceURL string
	// RawResponse is the provider body, kept for troubleshooting
	RawResponse string
}

// InvoiceGateway creates payment invoices with an external provider
type InvoiceGateway interface {
	CreateInvoice(ctx context.Context, req *InvoiceRequest) (*Invoice, error)
}

// SignatureVerifier authenticates provider callbacks
type SignatureVerifier interface {
	// VerifySignature reports whether signature matches payload
	VerifySignature(payload []byte, signature string) bool
}
