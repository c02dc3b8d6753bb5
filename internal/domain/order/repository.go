package order

import (
	"context"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Query narrows an admin order listing
type Query struct {
	shared.Filter
	Status Status
}

// DailyAmount is one point of a sales series
type DailyAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by ID in any tenant. Provider callbacks only
	// carry the order id, so they resolve the tenant from the row.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order with its items within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindPage returns one page of orders, newest first, and the total match count
	FindPage(ctx context.Context, tenantID uuid.UUID, query Query) ([]Order, int64, error)

	// Create inserts the order and its items in one transaction
	Create(ctx context.Context, order *Order) error

	// Save updates the order header, guarded by its version
	Save(ctx context.Context, order *Order) error

	// DeleteForTenant removes an order and its items
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts all orders of a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// SumPaidRevenue sums the total of paid orders
	SumPaidRevenue(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)

	// DailyRevenueSince groups the total of paid orders created since by day
	DailyRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]DailyAmount, error)
}
