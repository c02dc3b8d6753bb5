package order

import (
	"context"
	"errors"
	"testing"

	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type checkoutFixture struct {
	svc     *CheckoutService
	finder  *MockProductFinder
	orders  *MockOrderRepository
	gateway *MockInvoiceGateway
	events  *capturingPublisher
	logs    *observer.ObservedLogs
}

func newCheckoutFixture() *checkoutFixture {
	core, logs := observer.New(zap.InfoLevel)
	f := &checkoutFixture{
		finder:  new(MockProductFinder),
		orders:  new(MockOrderRepository),
		gateway: new(MockInvoiceGateway),
		events:  &capturingPublisher{},
		logs:    logs,
	}
	f.svc = NewCheckoutService(
		NewPriceCalculator(f.finder, new(MockRateProvider)),
		f.orders, f.gateway, f.events,
		CheckoutURLs{ServerURL: "https://api.idolo.test/", AppURL: "https://shop.idolo.test"},
		zap.New(core),
	)
	return f
}

func guestCheckout(items ...CartItemRequest) PlaceOrderRequest {
	return PlaceOrderRequest{
		Products:        items,
		ShippingAddress: testAddress(),
		UserInfo:        &valueobject.ContactInfo{FullName: "Ada Buyer", Email: "Ada@Example.com"},
	}
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	f := newCheckoutFixture()
	tenantID := uuid.New()
	f.finder.On("FindBySlugs", mock.Anything, tenantID, []string{"tee"}).
		Return([]catalog.Product{stockedProduct(t, tenantID, "tee", "24.99", 5)}, nil)

	var created *order.Order
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*order.Order) }).
		Return(nil)
	f.gateway.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(req *payment.InvoiceRequest) bool {
		return req.OrderID == created.ID &&
			req.Amount.String() == "49.98" &&
			req.PriceCurrency == "usd" &&
			req.Description == "Order #"+created.ID.String() &&
			req.IPNCallbackURL == "https://api.idolo.test/api/v1/webhooks/now-payment" &&
			req.SuccessURL == "https://shop.idolo.test/checkout/success?id="+created.ID.String() &&
			req.CancelURL == "https://shop.idolo.test/checkout?error=cancel-error"
	})).Return(&payment.Invoice{ID: "inv-77", InvoiceURL: "https://nowpayments.io/payment/?iid=77"}, nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	price := decimal.RequireFromString("1.00")
	resp, err := f.svc.PlaceOrder(context.Background(), tenantID, nil,
		guestCheckout(CartItemRequest{Slug: "tee", Quantity: 2, Price: &price}))

	require.NoError(t, err)
	assert.Equal(t, "https://nowpayments.io/payment/?iid=77", resp.CheckoutLink)
	assert.Equal(t, "49.98", resp.Total.StringFixed(2))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.Equal(t, "inv-77", resp.InvoiceID)
	require.NotNil(t, resp.UserInfo)
	assert.Equal(t, "ada@example.com", resp.UserInfo.Email)
	assert.Equal(t, "inv-77", created.InvoiceID)
	assert.Equal(t, []string{order.EventTypeOrderPlaced}, f.events.types())
	assert.Equal(t, 1, f.logs.FilterMessage("Order placed").Len())
	f.orders.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_InvoiceFailureKeepsPendingOrder(t *testing.T) {
	f := newCheckoutFixture()
	tenantID := uuid.New()
	f.finder.On("FindBySlugs", mock.Anything, tenantID, []string{"tee"}).
		Return([]catalog.Product{stockedProduct(t, tenantID, "tee", "10", 5)}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, payment.ErrGatewayUnavailable)

	_, err := f.svc.PlaceOrder(context.Background(), tenantID, nil, guestCheckout(CartItemRequest{Slug: "tee", Quantity: 1}))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentGateway)
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 1, f.logs.FilterMessage("Failed to create payment invoice").Len())
}

func TestCheckoutService_PlaceOrder_SaveFailureStillReturnsLink(t *testing.T) {
	f := newCheckoutFixture()
	tenantID := uuid.New()
	f.finder.On("FindBySlugs", mock.Anything, tenantID, []string{"tee"}).
		Return([]catalog.Product{stockedProduct(t, tenantID, "tee", "10", 5)}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(&payment.Invoice{ID: "inv-1", InvoiceURL: "https://pay.test/1"}, nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(shared.ErrConcurrentUpdate)

	resp, err := f.svc.PlaceOrder(context.Background(), tenantID, nil, guestCheckout(CartItemRequest{Slug: "tee", Quantity: 1}))

	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/1", resp.CheckoutLink)
	assert.Equal(t, 1, f.logs.FilterMessage("Failed to store invoice reference").Len())
}

func TestCheckoutService_PlaceOrder_Validation(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name string
		req  PlaceOrderRequest
	}{
		{
			name: "guest without contact",
			req:  PlaceOrderRequest{Products: []CartItemRequest{{Slug: "tee", Quantity: 1}}, ShippingAddress: testAddress()},
		},
		{
			name: "bad email",
			req: PlaceOrderRequest{
				Products:        []CartItemRequest{{Slug: "tee", Quantity: 1}},
				ShippingAddress: testAddress(),
				UserInfo:        &valueobject.ContactInfo{FullName: "Ada", Email: "ada@"},
			},
		},
		{
			name: "missing shipping address",
			req: PlaceOrderRequest{
				Products: []CartItemRequest{{Slug: "tee", Quantity: 1}},
				UserInfo: &valueobject.ContactInfo{FullName: "Ada", Email: "ada@example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()
			_, err := f.svc.PlaceOrder(context.Background(), tenantID, nil, tt.req)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			f.finder.AssertNotCalled(t, "FindBySlugs", mock.Anything, mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutService_PlaceOrder_PersistFailure(t *testing.T) {
	f := newCheckoutFixture()
	tenantID := uuid.New()
	userID := uuid.New()
	f.finder.On("FindBySlugs", mock.Anything, tenantID, []string{"tee"}).
		Return([]catalog.Product{stockedProduct(t, tenantID, "tee", "10", 5)}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	req := PlaceOrderRequest{Products: []CartItemRequest{{Slug: "tee", Quantity: 1}}, ShippingAddress: testAddress()}
	_, err := f.svc.PlaceOrder(context.Background(), tenantID, &userID, req)

	assert.EqualError(t, err, "connection reset")
	assert.Empty(t, f.events.events)
	f.gateway.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}
