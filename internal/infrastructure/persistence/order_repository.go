package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items in any tenant
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an order with its items within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPage returns one page of orders and the number of matching rows
func (r *GormOrderRepository) FindPage(ctx context.Context, tenantID uuid.UUID, query order.Query) ([]order.Order, int64, error) {
	filter := query.Filter.Normalize()
	scoped := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID)
		if query.Status != "" {
			db = db.Where("status = ?", query.Status)
		}
		if filter.Search != "" {
			pattern := "%" + escapeLike(filter.Search) + "%"
			db = db.Where("(order_number ILIKE ? OR user_info->>'email' ILIKE ?)", pattern, pattern)
		}
		if ps, ok := filter.Filters["payment_status"]; ok {
			db = db.Where("payment_status = ?", ps)
		}
		return db
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []order.Order{}, 0, nil
	}

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)

	var orderModels []models.OrderModel
	if err := scoped().
		Preload("Items").
		Order(sortField + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts the order and its items in one transaction
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// Save updates the order header. The write only succeeds if the row still
// has the version the order was loaded with; the version is then bumped.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"status":          o.Status,
			"payment_status":  o.PaymentStatus,
			"payment_method":  o.PaymentMethod,
			"invoice_id":      o.InvoiceID,
			"checkout_url":    o.CheckoutURL,
			"tracking_number": o.TrackingNumber,
			"admin_notes":     o.AdminNotes,
			"paid_at":         o.PaidAt,
			"updated_at":      o.UpdatedAt,
			"version":         o.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentUpdate
	}
	o.IncrementVersion()
	return nil
}

// DeleteForTenant removes an order; its items and payments cascade
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts all orders of a tenant
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPaidRevenue sums the totals of paid orders
func (r *GormOrderRepository) SumPaidRevenue(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("COALESCE(SUM(total), 0)").
		Where("tenant_id = ? AND payment_status = ?", tenantID, order.PaymentStatusPaid).
		Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

type dailyAmountRow struct {
	Day    time.Time
	Amount decimal.Decimal
}

// DailyRevenueSince sums paid order totals per calendar day (UTC)
func (r *GormOrderRepository) DailyRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]order.DailyAmount, error) {
	var rows []dailyAmountRow
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, SUM(total) AS amount").
		Where("tenant_id = ? AND payment_status = ? AND created_at >= ?", tenantID, order.PaymentStatusPaid, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	series := make([]order.DailyAmount, len(rows))
	for i, row := range rows {
		series[i] = order.DailyAmount{Date: row.Day, Amount: row.Amount}
	}
	return series, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
