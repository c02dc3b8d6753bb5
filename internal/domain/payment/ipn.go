package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Callback errors
var (
	ErrMissingSignature = errors.New("payment: missing IPN signature")
	ErrInvalidSignature = errors.New("payment: invalid IPN signature")
	ErrMalformedPayload = errors.New("payment: malformed IPN payload")
	ErrMissingOrderID   = errors.New("payment: IPN payload has no order_id")
)

// ProviderStatus is the payment_status reported by the provider
type ProviderStatus string

const (
	ProviderStatusWaiting       ProviderStatus = "waiting"
	ProviderStatusConfirming    ProviderStatus = "confirming"
	ProviderStatusConfirmed     ProviderStatus = "confirmed"
	ProviderStatusSending       ProviderStatus = "sending"
	ProviderStatusPartiallyPaid ProviderStatus = "partially_paid"
	ProviderStatusFinished      ProviderStatus = "finished"
	ProviderStatusFailed        ProviderStatus = "failed"
	ProviderStatusRefunded      ProviderStatus = "refunded"
	ProviderStatusExpired       ProviderStatus = "expired"
)

// FlexString decodes a JSON string or number into its literal text. The
// provider sends ids as numbers in some payloads and strings in others.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the text value
func (f FlexString) String() string {
	return string(f)
}

// Decimal parses the value, returning zero when it is empty or not numeric
func (f FlexString) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(f)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IPN is an instant payment notification from the provider
type IPN struct {
	PaymentID        FlexString     `json:"payment_id"`
	InvoiceID        FlexString     `json:"invoice_id"`
	PaymentStatus    ProviderStatus `json:"payment_status"`
	PayAddress       string         `json:"pay_address"`
	PriceAmount      FlexString     `json:"price_amount"`
	PriceCurrency    string         `json:"price_currency"`
	PayAmount        FlexString     `json:"pay_amount"`
	ActuallyPaid     FlexString     `json:"actually_paid"`
	PayCurrency      string         `json:"pay_currency"`
	OrderID          string         `json:"order_id"`
	OrderDescription string         `json:"order_description"`
	OutcomeAmount    FlexString     `json:"outcome_amount"`
	OutcomeCurrency  string         `json:"outcome_currency"`
}

// ParseIPN decodes a callback body
func ParseIPN(payload []byte) (*IPN, error) {
	var ipn IPN
	if err := json.Unmarshal(payload, &ipn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	ipn.OrderID = strings.TrimSpace(ipn.OrderID)
	if ipn.OrderID == "" {
		return nil, ErrMissingOrderID
	}
	return &ipn, nil
}

// IdempotencyKey identifies one delivery of one status for one payment
func (n *IPN) IdempotencyKey() string {
	id := n.PaymentID.String()
	if id == "" {
		id = "order-" + n.OrderID
	}
	return fmt.Sprintf("nowpayments:%s:%s", id, n.PaymentStatus)
}

// TransactionID is the provider reference stored on the Payment row
func (n *IPN) TransactionID() string {
	if id := n.PaymentID.String(); id != "" {
		return id
	}
	return "invoice-" + n.InvoiceID.String()
}

// PaymentMethod maps pay_currency to an order payment method, falling back to btc
func (n *IPN) PaymentMethod() order.PaymentMethod {
	m := order.PaymentMethod(strings.ToLower(strings.TrimSpace(n.PayCurrency)))
	switch m {
	case order.PaymentMethodBTC, order.PaymentMethodUSDT, order.PaymentMethodUSDC, order.PaymentMethodSOL:
		return m
	}
	// usdttrc20, usdcsol and friends carry the network as a suffix
	for _, prefix := range []order.PaymentMethod{order.PaymentMethodUSDT, order.PaymentMethodUSDC} {
		if strings.HasPrefix(string(m), string(prefix)) {
			return prefix
		}
	}
	return order.PaymentMethodBTC
}

// Outcome maps the provider status to an order outcome. The second result is
// false for intermediate statuses that leave the order unchanged.
func (n *IPN) Outcome() (order.PaymentOutcome, bool) {
	switch n.PaymentStatus {
	case ProviderStatusFinished:
		return order.PaymentOutcome{
			Status:        order.StatusProcessing,
			PaymentStatus: order.PaymentStatusPaid,
			Method:        n.PaymentMethod(),
		}, true
	case ProviderStatusFailed, ProviderStatusExpired:
		return order.PaymentOutcome{
			Status:        order.StatusCancelled,
			PaymentStatus: order.PaymentStatusFailed,
		}, true
	case ProviderStatusRefunded:
		return order.PaymentOutcome{
			Status:        order.StatusRefunded,
			PaymentStatus: order.PaymentStatusRefunded,
		}, true
	}
	return order.PaymentOutcome{}, false
}
