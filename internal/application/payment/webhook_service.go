package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcomes reported for every verified callback
const (
	OutcomeApplied      = "applied"
	OutcomeDuplicate    = "duplicate"
	OutcomeIgnored      = "ignored"
	OutcomeUnknownOrder = "unknown_order"
	OutcomeFailed       = "failed"
)

// maxSaveAttempts bounds reload-and-retry on version conflicts
const maxSaveAttempts = 3

// DefaultIdempotencyTTL is used when no TTL is configured
const DefaultIdempotencyTTL = 72 * time.Hour

// IPNResult is the acknowledgement sent back to the provider
type IPNResult struct {
	Success          bool   `json:"success"`
	AlreadyProcessed bool   `json:"already_processed"`
	Message          string `json:"message"`
	// Outcome is one of the Outcome constants
	Outcome string `json:"-"`
}

// WebhookService reconciles provider payment notifications with orders
type WebhookService struct {
	verifier    payment.SignatureVerifier
	orders      order.Repository
	payments    payment.Repository
	idempotency shared.IdempotencyStore
	events      shared.EventPublisher
	ttl         time.Duration
	logger      *zap.Logger
	metrics     *telemetry.ShopMetrics
}

// WebhookServiceConfig holds the dependencies of a WebhookService
type WebhookServiceConfig struct {
	Verifier       payment.SignatureVerifier
	Orders         order.Repository
	Payments       payment.Repository
	Idempotency    shared.IdempotencyStore
	EventPublisher shared.EventPublisher
	IdempotencyTTL time.Duration
	Logger         *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(config WebhookServiceConfig) *WebhookService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := config.IdempotencyTTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &WebhookService{
		verifier:    config.Verifier,
		orders:      config.Orders,
		payments:    config.Payments,
		idempotency: config.Idempotency,
		events:      config.EventPublisher,
		ttl:         ttl,
		logger:      logger,
	}
}

// SetShopMetrics sets the metrics recorder
func (s *WebhookService) SetShopMetrics(m *telemetry.ShopMetrics) {
	s.metrics = m
}

// ProcessIPN verifies and applies one callback. An error is returned only
// when the callback cannot be trusted or decoded; once verified, every
// callback yields a result, with Success false if applying it failed.
func (s *WebhookService) ProcessIPN(ctx context.Context, payload []byte, signature string) (*IPNResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "webhook", "ProcessIPN")
	defer span.End()

	if signature == "" {
		s.logger.Warn("IPN rejected: missing signature")
		return nil, payment.ErrMissingSignature
	}
	if !s.verifier.VerifySignature(payload, signature) {
		s.logger.Warn("IPN rejected: invalid signature")
		return nil, payment.ErrInvalidSignature
	}

	ipn, err := payment.ParseIPN(payload)
	if err != nil {
		s.logger.Warn("IPN rejected: bad payload", zap.Error(err))
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, ipn.OrderID,
		telemetry.SpanAttrPaymentID, ipn.PaymentID.String(),
		telemetry.SpanAttrProviderStatus, string(ipn.PaymentStatus),
	)

	s.logger.Info("IPN received",
		zap.String("order_id", ipn.OrderID),
		zap.String("payment_id", ipn.PaymentID.String()),
		zap.String("payment_status", string(ipn.PaymentStatus)))

	key := ipn.IdempotencyKey()
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.ttl)
	if err != nil {
		// fall through; the order's own state guards against double application
		s.logger.Warn("Idempotency store unavailable", zap.String("key", key), zap.Error(err))
		fresh = true
	}
	if !fresh {
		s.logger.Info("IPN already processed", zap.String("key", key))
		return s.result(ctx, ipn, &IPNResult{
			Success:          true,
			AlreadyProcessed: true,
			Message:          "already processed",
			Outcome:          OutcomeDuplicate,
		}), nil
	}

	result, err := s.apply(ctx, ipn)
	if err != nil {
		telemetry.RecordError(span, err)
		if relErr := s.idempotency.Release(ctx, key); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
		}
		s.logger.Error("Failed to apply IPN",
			zap.String("order_id", ipn.OrderID),
			zap.String("payment_status", string(ipn.PaymentStatus)),
			zap.Error(err))
		return s.result(ctx, ipn, &IPNResult{
			Success: false,
			Message: "processing failed",
			Outcome: OutcomeFailed,
		}), nil
	}
	return s.result(ctx, ipn, result), nil
}

func (s *WebhookService) apply(ctx context.Context, ipn *payment.IPN) (*IPNResult, error) {
	orderID, err := uuid.Parse(ipn.OrderID)
	if err != nil {
		s.logger.Warn("IPN for malformed order id", zap.String("order_id", ipn.OrderID))
		return &IPNResult{Success: true, Message: "unknown order", Outcome: OutcomeUnknownOrder}, nil
	}

	outcome, actionable := ipn.Outcome()

	for attempt := 1; ; attempt++ {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("IPN for unknown order", zap.String("order_id", ipn.OrderID))
				return &IPNResult{Success: true, Message: "unknown order", Outcome: OutcomeUnknownOrder}, nil
			}
			return nil, fmt.Errorf("load order: %w", err)
		}

		if !actionable {
			return &IPNResult{Success: true, Message: "status noted", Outcome: OutcomeIgnored}, nil
		}
		if !o.ApplyPaymentOutcome(outcome) {
			s.logger.Info("IPN left order unchanged",
				zap.String("order_id", o.ID.String()),
				zap.String("status", string(o.Status)),
				zap.String("payment_status", string(o.PaymentStatus)))
			return &IPNResult{Success: true, Message: "no change", Outcome: OutcomeIgnored}, nil
		}

		err = s.orders.Save(ctx, o)
		if errors.Is(err, shared.ErrConcurrentUpdate) && attempt < maxSaveAttempts {
			s.logger.Debug("Order changed concurrently, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save order: %w", err)
		}

		if err := s.payments.UpsertByTransactionID(ctx, payment.NewPaymentFromIPN(o, ipn)); err != nil {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		s.publish(ctx, o)

		s.logger.Info("IPN applied",
			zap.String("order_id", o.ID.String()),
			zap.String("order_number", o.OrderNumber),
			zap.String("status", string(o.Status)),
			zap.String("payment_status", string(o.PaymentStatus)))
		return &IPNResult{Success: true, Message: "order updated", Outcome: OutcomeApplied}, nil
	}
}

func (s *WebhookService) result(ctx context.Context, ipn *payment.IPN, r *IPNResult) *IPNResult {
	if s.metrics != nil {
		s.metrics.RecordIPN(ctx, string(ipn.PaymentStatus), r.Outcome)
	}
	return r
}

func (s *WebhookService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if len(events) == 0 || s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.Error(err))
	}
}
