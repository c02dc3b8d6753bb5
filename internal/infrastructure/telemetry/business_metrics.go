package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor gets no meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// IPN outcomes recorded by RecordIPN
const (
	OutcomeApplied      = "applied"
	OutcomeDuplicate    = "duplicate"
	OutcomeIgnored      = "ignored"
	OutcomeUnknownOrder = "unknown_order"
	OutcomeFailed       = "failed"
)

// ShopMetrics records checkout, payment callback and exchange-rate activity.
type ShopMetrics struct {
	ordersPlaced     *Counter
	orderAmountCents *Counter
	checkoutFailures *Counter
	ipnCallbacks     *Counter
	rateLookups      *Counter
	gatewayDuration  *Histogram
}

// NewShopMetrics creates the instruments on meter
func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &ShopMetrics{}
	var err error

	if m.ordersPlaced, err = NewCounter(meter,
		"shop_orders_placed_total", "Orders persisted by checkout", "{orders}"); err != nil {
		return nil, err
	}
	if m.orderAmountCents, err = NewCounter(meter,
		"shop_order_amount_cents_total", "Sum of placed order totals in cents", "{cents}"); err != nil {
		return nil, err
	}
	if m.checkoutFailures, err = NewCounter(meter,
		"shop_checkout_failures_total", "Checkouts that did not return a payment link", "{checkouts}"); err != nil {
		return nil, err
	}
	if m.ipnCallbacks, err = NewCounter(meter,
		"shop_ipn_callbacks_total", "Verified payment callbacks by provider status and outcome", "{callbacks}"); err != nil {
		return nil, err
	}
	if m.rateLookups, err = NewCounter(meter,
		"shop_exchange_rate_lookups_total", "Exchange rate lookups by source", "{lookups}"); err != nil {
		return nil, err
	}
	if m.gatewayDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "shop_payment_gateway_duration_seconds",
		Description: "Invoice creation latency",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOrderPlaced counts one order and adds its total in cents
func (m *ShopMetrics) RecordOrderPlaced(ctx context.Context, tenantID uuid.UUID, total decimal.Decimal, currency string) {
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID.String()), AttrCurrency.String(currency)}
	m.ordersPlaced.Inc(ctx, attrs...)
	m.orderAmountCents.Add(ctx, total.Shift(2).Round(0).IntPart(), attrs...)
}

// RecordCheckoutFailed counts a checkout that failed at stage
func (m *ShopMetrics) RecordCheckoutFailed(ctx context.Context, tenantID uuid.UUID, stage string) {
	m.checkoutFailures.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrOutcome.String(stage))
}

// RecordIPN counts one verified callback
func (m *ShopMetrics) RecordIPN(ctx context.Context, providerStatus, outcome string) {
	m.ipnCallbacks.Inc(ctx, AttrProviderStatus.String(providerStatus), AttrOutcome.String(outcome))
}

// RecordRateLookup counts one lookup; failed lookups are tagged "error"
func (m *ShopMetrics) RecordRateLookup(ctx context.Context, source string, err error) {
	if err != nil {
		source = "error"
	}
	m.rateLookups.Inc(ctx, AttrRateSource.String(source))
}

// RecordGatewayCall records invoice creation latency
func (m *ShopMetrics) RecordGatewayCall(ctx context.Context, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.gatewayDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}
