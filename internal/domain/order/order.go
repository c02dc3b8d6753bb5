package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the fulfilment status of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
	StatusRefunded   Status = "refunded"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered,
		StatusCancelled, StatusReturned, StatusRefunded:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that only an admin may leave
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned || s == StatusRefunded
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() || s == target {
		return false
	}
	return !s.IsTerminal()
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// PaymentStatus represents the settlement status of an order
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded:
		return true
	}
	return false
}

// IsSettled returns true once money has moved; such orders are never
// moved back to pending or failed by a provider callback
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentStatusPaid || s == PaymentStatusRefunded || s == PaymentStatusPartiallyRefunded
}

// PaymentMethod is how the buyer paid
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodDebitCard      PaymentMethod = "debit_card"
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodPaypal         PaymentMethod = "paypal"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBTC            PaymentMethod = "btc"
	PaymentMethodUSDT           PaymentMethod = "usdt"
	PaymentMethodUSDC           PaymentMethod = "usdc"
	PaymentMethodSOL            PaymentMethod = "sol"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodCard, PaymentMethodPaypal,
		PaymentMethodBankTransfer, PaymentMethodCashOnDelivery,
		PaymentMethodBTC, PaymentMethodUSDT, PaymentMethodUSDC, PaymentMethodSOL:
		return true
	}
	return false
}

// ShippingMethod is how the order is delivered
type ShippingMethod string

const (
	ShippingMethodStandard ShippingMethod = "standard"
	ShippingMethodExpress  ShippingMethod = "express"
	ShippingMethodSameDay  ShippingMethod = "same_day"
	ShippingMethodPickup   ShippingMethod = "pickup"
)

// IsValid checks if the shipping method is known
func (m ShippingMethod) IsValid() bool {
	switch m {
	case ShippingMethodStandard, ShippingMethodExpress, ShippingMethodSameDay, ShippingMethodPickup:
		return true
	}
	return false
}

// Item is a priced line of an order. UnitPrice is in Currency, the
// product's own currency; LineTotal is already converted to the order currency.
type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Slug      string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Currency  valueobject.Currency
	LineTotal decimal.Decimal
	CreatedAt time.Time
}

// NewItem creates an order line
func NewItem(productID uuid.UUID, slug, name string, quantity int, unitPrice valueobject.Money, lineTotal decimal.Decimal) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Invalid quantity for product slug %s", slug))
	}
	if unitPrice.Amount().IsNegative() || lineTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &Item{
		ID:        uuid.New(),
		ProductID: productID,
		Slug:      slug,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice.Amount(),
		Currency:  unitPrice.Currency(),
		LineTotal: lineTotal.Round(valueobject.MoneyScale),
		CreatedAt: time.Now(),
	}, nil
}

// Details carries the buyer-supplied part of a new order
type Details struct {
	UserID          *uuid.UUID
	UserInfo        valueobject.ContactInfo
	ShippingAddress valueobject.Address
	BillingAddress  valueobject.Address
	PaymentMethod   PaymentMethod
	ShippingMethod  ShippingMethod
	Notes           string
	IsGift          bool
}

// Order is a persisted purchase
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string
	UserID          *uuid.UUID
	UserInfo        valueobject.ContactInfo
	Status          Status
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	ShippingMethod  ShippingMethod
	Currency        valueobject.Currency
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	ShippingAddress valueobject.Address
	BillingAddress  valueobject.Address
	Notes           string
	IsGift          bool
	Items           []Item
	InvoiceID       string
	CheckoutURL     string
	TrackingNumber  string
	AdminNotes      string
	PaidAt          *time.Time
}

// NewOrderNumber formats an order number from the given time
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%d", t.UnixMilli())
}

// NewOrder creates a pending order. subtotal must already be in the order currency.
func NewOrder(tenantID uuid.UUID, details Details, subtotal valueobject.Money, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one product")
	}
	if !subtotal.IsPositive() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total must be greater than zero")
	}
	shipping, err := valueobject.NewAddress(details.ShippingAddress)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_ADDRESS", err.Error(), shared.ErrInvalidInput)
	}
	var billing valueobject.Address
	if !details.BillingAddress.IsEmpty() {
		if billing, err = valueobject.NewAddress(details.BillingAddress); err != nil {
			return nil, shared.WrapDomainError("INVALID_ADDRESS", err.Error(), shared.ErrInvalidInput)
		}
	}
	if !details.UserInfo.IsEmpty() {
		if err := details.UserInfo.Validate(); err != nil {
			return nil, shared.WrapDomainError("INVALID_CONTACT", err.Error(), shared.ErrInvalidInput)
		}
	}

	paymentMethod := details.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentMethodCard
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", paymentMethod))
	}
	shippingMethod := details.ShippingMethod
	if shippingMethod == "" {
		shippingMethod = ShippingMethodStandard
	}
	if !shippingMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_METHOD", fmt.Sprintf("Unknown shipping method %q", shippingMethod))
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              details.UserID,
		UserInfo:            details.UserInfo,
		Status:              StatusPending,
		PaymentStatus:       PaymentStatusPending,
		PaymentMethod:       paymentMethod,
		ShippingMethod:      shippingMethod,
		Currency:            subtotal.Currency(),
		Subtotal:            subtotal.Amount().Round(valueobject.MoneyScale),
		ShippingFee:         decimal.Zero,
		DiscountAmount:      decimal.Zero,
		ShippingAddress:     shipping,
		BillingAddress:      billing,
		Notes:               strings.TrimSpace(details.Notes),
		IsGift:              details.IsGift,
	}
	o.OrderNumber = NewOrderNumber(o.CreatedAt)
	o.recalculateTotal()

	o.Items = make([]Item, len(items))
	for i, item := range items {
		item.OrderID = o.ID
		o.Items[i] = item
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// TransitionTo moves the order to target, refusing to leave a terminal status
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target), shared.ErrInvalidState)
	}
	o.setStatus(target)
	return nil
}

// ForceStatus sets the status without the terminal-state check. Admins use
// it to correct orders that were closed by mistake.
func (o *Order) ForceStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target != o.Status {
		o.setStatus(target)
	}
	return nil
}

// MarkPaid records a settled payment
func (o *Order) MarkPaid(method PaymentMethod) {
	if method != "" && method.IsValid() {
		o.PaymentMethod = method
	}
	if o.PaymentStatus == PaymentStatusPaid {
		return
	}
	now := time.Now()
	o.PaidAt = &now
	o.setPaymentStatus(PaymentStatusPaid)
}

// MarkUnpaid resets a paid order back to pending
func (o *Order) MarkUnpaid() {
	if o.PaymentStatus != PaymentStatusPaid {
		return
	}
	o.PaidAt = nil
	o.setPaymentStatus(PaymentStatusPending)
}

// PaymentOutcome is the effect a provider callback should have on an order
type PaymentOutcome struct {
	Status        Status
	PaymentStatus PaymentStatus
	Method        PaymentMethod
}

// ApplyPaymentOutcome applies a provider-reported outcome. A settled payment
// is never downgraded to pending or failed, and a terminal order status is
// left as is. The fulfilment status only moves off pending, except for a
// refund. It returns false when nothing changed.
func (o *Order) ApplyPaymentOutcome(outcome PaymentOutcome) bool {
	switch {
	case outcome.PaymentStatus == o.PaymentStatus:
		return false
	case o.PaymentStatus.IsSettled() && !outcome.PaymentStatus.IsSettled():
		return false
	case o.PaymentStatus == PaymentStatusRefunded:
		return false
	case outcome.PaymentStatus == PaymentStatusPaid:
		o.MarkPaid(outcome.Method)
	default:
		o.setPaymentStatus(outcome.PaymentStatus)
	}

	advance := o.Status == StatusPending || outcome.Status == StatusRefunded
	if outcome.Status != "" && advance && o.Status.CanTransitionTo(outcome.Status) {
		o.setStatus(outcome.Status)
	}
	return true
}

// AttachInvoice stores the external invoice reference
func (o *Order) AttachInvoice(invoiceID, checkoutURL string) error {
	if invoiceID == "" || checkoutURL == "" {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice id and checkout url are required")
	}
	o.InvoiceID = invoiceID
	o.CheckoutURL = checkoutURL
	o.touch()
	return nil
}

// SetTracking updates admin-managed fields; nil leaves a field unchanged
func (o *Order) SetTracking(trackingNumber, adminNotes *string) {
	if trackingNumber != nil {
		o.TrackingNumber = strings.TrimSpace(*trackingNumber)
	}
	if adminNotes != nil {
		o.AdminNotes = strings.TrimSpace(*adminNotes)
	}
	o.touch()
}

// TotalMoney returns the total with the order currency
func (o *Order) TotalMoney() valueobject.Money {
	m, err := valueobject.NewMoney(o.Total, o.Currency)
	if err != nil {
		return valueobject.NewMoneyUSD(o.Total)
	}
	return m
}

func (o *Order) recalculateTotal() {
	o.Total = o.Subtotal.Add(o.ShippingFee).Sub(o.DiscountAmount).Round(valueobject.MoneyScale)
}

func (o *Order) setStatus(target Status) {
	from := o.Status
	o.Status = target
	o.touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
}

func (o *Order) setPaymentStatus(target PaymentStatus) {
	from := o.PaymentStatus
	o.PaymentStatus = target
	o.touch()
	o.AddDomainEvent(NewOrderPaymentStatusChangedEvent(o, from))
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
}
