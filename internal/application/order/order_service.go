package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order lookups and admin changes
type OrderService struct {
	orders order.Repository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders order.Repository, events shared.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		events: events,
		logger: logger,
	}
}

// GetPublic returns an order by id for the buyer-facing status page
func (s *OrderService) GetPublic(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List returns one page of orders, newest first
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, params ListOrdersParams) (*shared.Paginated[AdminOrderResponse], error) {
	query := order.Query{
		Filter: shared.Filter{
			Page:     params.Page,
			PageSize: params.Limit,
			Search:   strings.TrimSpace(params.Search),
		}.Normalize(),
	}
	if params.Status != "" {
		status := order.Status(strings.ToLower(params.Status))
		if !status.IsValid() {
			return nil, shared.WrapDomainError("INVALID_STATUS",
				fmt.Sprintf("Unknown order status %q", params.Status), shared.ErrInvalidInput)
		}
		query.Status = status
	}

	orders, total, err := s.orders.FindPage(ctx, tenantID, query)
	if err != nil {
		return nil, err
	}
	items := make([]AdminOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToAdminOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &page, nil
}

// Get returns one order with its items
func (s *OrderService) Get(ctx context.Context, tenantID, id uuid.UUID) (*AdminOrderResponse, error) {
	o, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdminOrderResponse(o)
	return &resp, nil
}

// Update applies an admin status change. Leaving a terminal status requires
// req.Force.
func (s *OrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req AdminUpdateOrderRequest) (*AdminOrderResponse, error) {
	o, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	target := order.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !target.IsValid() {
		return nil, shared.WrapDomainError("INVALID_STATUS",
			fmt.Sprintf("Unknown order status %q", req.Status), shared.ErrInvalidInput)
	}
	if req.Force {
		err = o.ForceStatus(target)
	} else {
		err = o.TransitionTo(target)
	}
	if err != nil {
		return nil, err
	}

	if req.IsPaid != nil {
		if *req.IsPaid {
			o.MarkPaid("")
		} else {
			o.MarkUnpaid()
		}
	}
	o.SetTracking(req.TrackingNumber, req.AdminNotes)

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	s.logger.Info("Order updated",
		zap.String("order_id", o.ID.String()),
		zap.String("status", string(o.Status)),
		zap.String("payment_status", string(o.PaymentStatus)),
		zap.Bool("forced", req.Force))

	resp := ToAdminOrderResponse(o)
	return &resp, nil
}

// Delete removes an order and its items
func (s *OrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.orders.DeleteForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.Error(err))
	}
}
