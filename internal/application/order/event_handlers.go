package order

import (
	"context"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderAuditHandler writes an audit log line for every order lifecycle event
type OrderAuditHandler struct {
	logger *zap.Logger
}

// NewOrderAuditHandler creates a new OrderAuditHandler
func NewOrderAuditHandler(logger *zap.Logger) *OrderAuditHandler {
	return &OrderAuditHandler{logger: logger.Named("order-audit")}
}

// EventTypes implements shared.EventHandler
func (h *OrderAuditHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderPaymentStatusChanged,
	}
}

// Handle implements shared.EventHandler
func (h *OrderAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("order_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.logger.Info("Order placed", append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("total", e.Total.String()),
			zap.String("currency", e.Currency),
			zap.Int("item_count", e.ItemCount))...)
	case *order.OrderStatusChangedEvent:
		h.logger.Info("Order status changed", append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)))...)
	case *order.OrderPaymentStatusChangedEvent:
		h.logger.Info("Order payment status changed", append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)))...)
	default:
		h.logger.Debug("Ignoring event", append(fields, zap.String("event_type", event.EventType()))...)
	}
	return nil
}

var _ shared.EventHandler = (*OrderAuditHandler)(nil)
