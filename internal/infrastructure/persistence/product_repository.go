package persistence

import (
	"context"
	"errors"

	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a product by its slug within a tenant
func (r *GormProductRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlugs loads the products for a set of slugs. Missing slugs are
// simply absent from the result.
func (r *GormProductRepository) FindBySlugs(ctx context.Context, tenantID uuid.UUID, slugs []string) ([]catalog.Product, error) {
	if len(slugs) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug IN ?", tenantID, slugs).
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// FindPage returns one page of products and the number of matching rows
func (r *GormProductRepository) FindPage(ctx context.Context, tenantID uuid.UUID, query catalog.ProductQuery) ([]catalog.Product, int64, error) {
	filter := query.Filter.Normalize()
	scoped := func() *gorm.DB {
		return r.applyQuery(r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID), query)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []catalog.Product{}, 0, nil
	}

	var productModels []models.ProductModel
	if err := scoped().
		Order(productOrder(query.Sort)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&productModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainProducts(productModels), total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a product within a tenant
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySlug checks if another product of the tenant uses slug
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, "tenant_id = ? AND slug = ? AND id <> ?", tenantID, slug, excludeID)
}

// ExistsBySKU checks if another product of the tenant uses sku
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, "tenant_id = ? AND sku = ? AND id <> ?", tenantID, sku, excludeID)
}

// CountForTenant counts all products of a tenant
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where(where, args...).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyQuery applies the listing filters, without ordering or pagination
func (r *GormProductRepository) applyQuery(db *gorm.DB, query catalog.ProductQuery) *gorm.DB {
	if query.PublicOnly {
		db = db.Where("status = ? AND visibility = ?", catalog.ProductStatusActive, catalog.VisibilityPublic)
	}
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.Search != "" {
		pattern := "%" + escapeLike(query.Search) + "%"
		db = db.Where("name ILIKE ?", pattern)
	}
	for key, value := range query.Filters {
		switch key {
		case "status":
			db = db.Where("status = ?", value)
		case "visibility":
			db = db.Where("visibility = ?", value)
		case "is_featured":
			db = db.Where("is_featured = ?", value)
		case "limited_edition":
			db = db.Where("limited_edition = ?", value)
		}
	}
	return db
}

func productOrder(sort catalog.ProductSort) string {
	switch sort {
	case catalog.SortOldest:
		return "created_at ASC"
	case catalog.SortPriceAsc:
		return "sale_price ASC, created_at DESC"
	case catalog.SortPriceDesc:
		return "sale_price DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func toDomainProducts(productModels []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
