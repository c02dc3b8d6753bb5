package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPaymentGateway is returned when the order was stored but no invoice
// could be created for it
var ErrPaymentGateway = shared.NewDomainError("ERR_PAYMENT_GATEWAY", "Payment provider is unavailable, please try again")

// Checkout failure stages reported to metrics
const (
	StageValidation = "validation"
	StagePricing    = "pricing"
	StagePersist    = "persist"
	StageInvoice    = "invoice"
)

// CheckoutURLs are the absolute URLs handed to the payment provider
type CheckoutURLs struct {
	// ServerURL is the public base URL of this API
	ServerURL string
	// AppURL is the storefront base URL
	AppURL string
}

// IPNCallbackURL is where the provider posts payment notifications
func (u CheckoutURLs) IPNCallbackURL() string {
	return strings.TrimRight(u.ServerURL, "/") + "/api/v1/webhooks/now-payment"
}

// SuccessURL is where the payer lands after paying
func (u CheckoutURLs) SuccessURL(orderID uuid.UUID) string {
	return strings.TrimRight(u.AppURL, "/") + "/checkout/success?id=" + orderID.String()
}

// CancelURL is where the payer lands after cancelling
func (u CheckoutURLs) CancelURL() string {
	return strings.TrimRight(u.AppURL, "/") + "/checkout?error=cancel-error"
}

// CheckoutService turns a cart into a persisted order and a payment invoice
type CheckoutService struct {
	calculator *PriceCalculator
	orders     order.Repository
	gateway    payment.InvoiceGateway
	events     shared.EventPublisher
	urls       CheckoutURLs
	validate   *validator.Validate
	logger     *zap.Logger
	metrics    *telemetry.ShopMetrics
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	calculator *PriceCalculator,
	orders order.Repository,
	gateway payment.InvoiceGateway,
	events shared.EventPublisher,
	urls CheckoutURLs,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		calculator: calculator,
		orders:     orders,
		gateway:    gateway,
		events:     events,
		urls:       urls,
		validate:   validator.New(),
		logger:     logger,
	}
}

// SetShopMetrics sets the metrics recorder
func (s *CheckoutService) SetShopMetrics(m *telemetry.ShopMetrics) {
	s.metrics = m
}

// PlaceOrder prices the cart from the catalog, stores a pending order and
// creates a hosted invoice for it. userID is nil for guest checkouts.
func (s *CheckoutService) PlaceOrder(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req PlaceOrderRequest) (resp *PlaceOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "PlaceOrder",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrItemCount, len(req.Products),
	)
	defer span.End()

	stage := StageValidation
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
			if s.metrics != nil {
				s.metrics.RecordCheckoutFailed(ctx, tenantID, stage)
			}
		}
	}()

	details, err := s.details(userID, req)
	if err != nil {
		return nil, err
	}

	stage = StagePricing
	items := make([]LineItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = LineItem{Slug: p.Slug, Quantity: p.Quantity}
	}
	quote, err := s.calculator.Calculate(ctx, tenantID, items)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Item, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		item, err := order.NewItem(line.Product.ID, line.Product.Slug, line.Product.Name, line.Quantity, line.UnitPrice, line.LineTotal)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *item)
	}

	stage = StagePersist
	o, err := order.NewOrder(tenantID, details, quote.Subtotal, lines)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID.String(),
		telemetry.SpanAttrOrderNumber, o.OrderNumber,
		telemetry.SpanAttrAmount, o.Total.String(),
	)
	s.publish(ctx, o)

	stage = StageInvoice
	invoice, err := s.createInvoice(ctx, o)
	if err != nil {
		s.logger.Error("Failed to create payment invoice",
			zap.String("order_id", o.ID.String()),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
		return nil, shared.WrapDomainError(ErrPaymentGateway.Code, ErrPaymentGateway.Message, err)
	}

	if err := o.AttachInvoice(invoice.ID, invoice.InvoiceURL); err != nil {
		s.logger.Warn("Provider returned an incomplete invoice",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	} else if err := s.orders.Save(ctx, o); err != nil {
		// the buyer can still pay; the IPN carries the order id
		s.logger.Warn("Failed to store invoice reference",
			zap.String("order_id", o.ID.String()),
			zap.String("invoice_id", invoice.ID),
			zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, tenantID, o.Total, o.Currency.String())
	}
	s.logger.Info("Order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.Total.StringFixed(valueobject.MoneyScale)),
		zap.Int("items", len(o.Items)))

	return &PlaceOrderResponse{
		OrderResponse: ToOrderResponse(o),
		CheckoutLink:  invoice.InvoiceURL,
	}, nil
}

func (s *CheckoutService) details(userID *uuid.UUID, req PlaceOrderRequest) (order.Details, error) {
	if req.ShippingAddress == nil {
		return order.Details{}, shared.WrapDomainError("INVALID_ADDRESS", "Shipping address is required", shared.ErrInvalidInput)
	}
	details := order.Details{
		UserID:          userID,
		ShippingAddress: *req.ShippingAddress,
		PaymentMethod:   order.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		ShippingMethod:  order.ShippingMethod(strings.ToLower(strings.TrimSpace(req.ShippingMethod))),
		Notes:           req.Notes,
		IsGift:          req.IsGift,
	}
	if req.BillingAddress != nil {
		details.BillingAddress = *req.BillingAddress
	}
	if req.UserInfo != nil {
		details.UserInfo = *req.UserInfo
		details.UserInfo.Email = strings.TrimSpace(strings.ToLower(details.UserInfo.Email))
	}
	if userID == nil && details.UserInfo.IsEmpty() {
		return order.Details{}, shared.WrapDomainError("INVALID_CONTACT", "Guest checkout requires userInfo", shared.ErrInvalidInput)
	}
	if details.UserInfo.Email != "" {
		if err := s.validate.Var(details.UserInfo.Email, "email"); err != nil {
			return order.Details{}, shared.WrapDomainError("INVALID_CONTACT",
				fmt.Sprintf("Invalid email address %q", details.UserInfo.Email), shared.ErrInvalidInput)
		}
	}
	return details, nil
}

func (s *CheckoutService) createInvoice(ctx context.Context, o *order.Order) (*payment.Invoice, error) {
	req := &payment.InvoiceRequest{
		OrderID:        o.ID,
		Amount:         o.Total,
		PriceCurrency:  o.Currency.Lower(),
		Description:    "Order #" + o.ID.String(),
		IPNCallbackURL: s.urls.IPNCallbackURL(),
		SuccessURL:     s.urls.SuccessURL(o.ID),
		CancelURL:      s.urls.CancelURL(),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	invoice, err := s.gateway.CreateInvoice(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordGatewayCall(ctx, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.InvoiceURL == "" {
		return nil, errors.Join(payment.ErrGatewayInvalidResponse, errors.New("invoice url missing"))
	}
	return invoice, nil
}

func (s *CheckoutService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.Error(err))
	}
}
