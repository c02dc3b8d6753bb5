package payment

import (
	"context"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderNowPayments names the crypto payment provider
const ProviderNowPayments = "nowpayments"

// Payment records what the provider last reported for one transaction
type Payment struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	OrderID       uuid.UUID
	Provider      string
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Method        order.PaymentMethod
	Status        order.PaymentStatus
	ProviderState ProviderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPaymentFromIPN builds the payment row for a callback applied to o
func NewPaymentFromIPN(o *order.Order, ipn *IPN) *Payment {
	amount := ipn.ActuallyPaid.Decimal()
	currency := ipn.PayCurrency
	if amount.IsZero() {
		amount = ipn.PriceAmount.Decimal()
		currency = ipn.PriceCurrency
	}
	now := time.Now()
	return &Payment{
		ID:            uuid.New(),
		TenantID:      o.TenantID,
		OrderID:       o.ID,
		Provider:      ProviderNowPayments,
		TransactionID: ipn.TransactionID(),
		Amount:        amount,
		Currency:      currency,
		Method:        ipn.PaymentMethod(),
		Status:        o.PaymentStatus,
		ProviderState: ipn.PaymentStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Repository defines the interface for payment persistence
type Repository interface {
	// UpsertByTransactionID inserts the payment or updates the row with the same transaction id
	UpsertByTransactionID(ctx context.Context, p *Payment) error

	// FindByOrderID lists the payments recorded for an order
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]Payment, error)
}
