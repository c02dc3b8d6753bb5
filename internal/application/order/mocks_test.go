package order

import (
	"context"
	"testing"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductFinder is a mock implementation of ProductFinder
type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) FindBySlugs(ctx context.Context, tenantID uuid.UUID, slugs []string) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockRateProvider is a mock implementation of pricing.RateProvider
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(ctx context.Context, from, to valueobject.Currency) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPage(ctx context.Context, tenantID uuid.UUID, query order.Query) ([]order.Order, int64, error) {
	args := m.Called(ctx, tenantID, query)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SumPaidRevenue(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderRepository) DailyRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]order.DailyAmount, error) {
	args := m.Called(ctx, tenantID, since)
	return args.Get(0).([]order.DailyAmount), args.Error(1)
}

// MockInvoiceGateway is a mock implementation of payment.InvoiceGateway
type MockInvoiceGateway struct {
	mock.Mock
}

func (m *MockInvoiceGateway) CreateInvoice(ctx context.Context, req *payment.InvoiceRequest) (*payment.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Invoice), args.Error(1)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func stockedProduct(t *testing.T, tenantID uuid.UUID, slug, price string, stock int) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, "Idol Tee "+slug, slug, "SKU-"+slug, catalog.CategoryClothing,
		decimal.RequireFromString(price), decimal.RequireFromString("1"))
	require.NoError(t, err)
	require.NoError(t, p.SetStock(stock, true, 1))
	p.ClearDomainEvents()
	return *p
}

func testAddress() *valueobject.Address {
	return &valueobject.Address{
		FullName: "Ada Buyer",
		Street:   "1 Market Street",
		City:     "Lagos",
		Country:  "NG",
	}
}

func pendingOrder(t *testing.T, tenantID uuid.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(uuid.New(), "tee", "Idol Tee", 1, valueobject.NewMoneyUSD(decimal.NewFromInt(25)), decimal.NewFromInt(25))
	require.NoError(t, err)
	o, err := order.NewOrder(tenantID, order.Details{
		UserInfo:        valueobject.ContactInfo{FullName: "Ada Buyer", Email: "ada@example.com"},
		ShippingAddress: *testAddress(),
	}, valueobject.NewMoneyUSD(decimal.NewFromInt(25)), []order.Item{*item})
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}
