package order

import (
	"context"
	"testing"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderService() (*OrderService, *MockOrderRepository, *capturingPublisher) {
	repo := new(MockOrderRepository)
	events := &capturingPublisher{}
	return NewOrderService(repo, events, zap.NewNop()), repo, events
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestOrderService_Update(t *testing.T) {
	svc, repo, events := newOrderService()
	tenantID := uuid.New()
	o := pendingOrder(t, tenantID)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, o.ID).Return(o, nil)
	repo.On("Save", mock.Anything, o).Return(nil)

	resp, err := svc.Update(context.Background(), tenantID, o.ID, AdminUpdateOrderRequest{
		Status:         "Shipped",
		TrackingNumber: strPtr(" DHL-123 "),
		AdminNotes:     strPtr("left at door"),
		IsPaid:         boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "shipped", resp.Status)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, "DHL-123", resp.TrackingNumber)
	assert.Equal(t, "left at door", resp.AdminNotes)
	assert.NotNil(t, resp.PaidAt)
	assert.ElementsMatch(t, []string{order.EventTypeOrderStatusChanged, order.EventTypeOrderPaymentStatusChanged}, events.types())
	repo.AssertExpectations(t)
}

func TestOrderService_Update_TerminalStatusNeedsForce(t *testing.T) {
	svc, repo, _ := newOrderService()
	tenantID := uuid.New()
	o := pendingOrder(t, tenantID)
	require.NoError(t, o.TransitionTo(order.StatusCancelled))
	o.ClearDomainEvents()

	repo.On("FindByIDForTenant", mock.Anything, tenantID, o.ID).Return(o, nil)

	_, err := svc.Update(context.Background(), tenantID, o.ID, AdminUpdateOrderRequest{Status: "processing"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	repo.On("Save", mock.Anything, o).Return(nil)
	resp, err := svc.Update(context.Background(), tenantID, o.ID, AdminUpdateOrderRequest{Status: "processing", Force: true})
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status)
}

func TestOrderService_Update_Errors(t *testing.T) {
	tenantID := uuid.New()

	t.Run("unknown status", func(t *testing.T) {
		svc, repo, _ := newOrderService()
		o := pendingOrder(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, o.ID).Return(o, nil)

		_, err := svc.Update(context.Background(), tenantID, o.ID, AdminUpdateOrderRequest{Status: "lost"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("concurrent update", func(t *testing.T) {
		svc, repo, events := newOrderService()
		o := pendingOrder(t, tenantID)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, o.ID).Return(o, nil)
		repo.On("Save", mock.Anything, o).Return(shared.ErrConcurrentUpdate)

		_, err := svc.Update(context.Background(), tenantID, o.ID, AdminUpdateOrderRequest{Status: "processing"})
		assert.ErrorIs(t, err, shared.ErrConcurrentUpdate)
		assert.Empty(t, events.events)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := newOrderService()
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(context.Background(), tenantID, id, AdminUpdateOrderRequest{Status: "processing"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_List(t *testing.T) {
	svc, repo, _ := newOrderService()
	tenantID := uuid.New()
	o := pendingOrder(t, tenantID)

	repo.On("FindPage", mock.Anything, tenantID, mock.MatchedBy(func(q order.Query) bool {
		return q.Status == order.StatusPending && q.Page == 2 && q.PageSize == shared.MaxPageSize && q.Search == "ada"
	})).Return([]order.Order{*o}, int64(101), nil)

	page, err := svc.List(context.Background(), tenantID, ListOrdersParams{Page: 2, Limit: 500, Search: " ada ", Status: "PENDING"})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, o.OrderNumber, page.Items[0].OrderNumber)
	assert.Equal(t, 2, page.TotalPages)

	_, err = svc.List(context.Background(), tenantID, ListOrdersParams{Status: "teleported"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestOrderService_GetPublicAndDelete(t *testing.T) {
	svc, repo, _ := newOrderService()
	tenantID := uuid.New()
	o := pendingOrder(t, tenantID)
	o.AdminNotes = "internal"

	repo.On("FindByIDForTenant", mock.Anything, tenantID, o.ID).Return(o, nil)
	resp, err := svc.GetPublic(context.Background(), tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, resp.ID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "tee", resp.Items[0].Slug)

	missing := uuid.New()
	repo.On("DeleteForTenant", mock.Anything, tenantID, o.ID).Return(nil)
	repo.On("DeleteForTenant", mock.Anything, tenantID, missing).Return(shared.ErrNotFound)
	assert.NoError(t, svc.Delete(context.Background(), tenantID, o.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), tenantID, missing), shared.ErrNotFound)
}
