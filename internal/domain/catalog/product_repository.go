package catalog

import (
	"context"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductSort is the storefront sort order
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortOldest    ProductSort = "oldest"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
)

// IsValid returns true if the sort order is known
func (s ProductSort) IsValid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// ProductQuery narrows a product listing
type ProductQuery struct {
	shared.Filter
	Category Category
	Sort     ProductSort
	// PublicOnly restricts results to active, public products
	PublicOnly bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by slug within a tenant, regardless of visibility
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Product, error)

	// FindBySlugs loads every product whose slug is in slugs
	FindBySlugs(ctx context.Context, tenantID uuid.UUID, slugs []string) ([]Product, error)

	// FindPage returns one page of products and the total match count
	FindPage(ctx context.Context, tenantID uuid.UUID, query ProductQuery) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsBySlug checks slug uniqueness, ignoring the product excludeID
	ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)

	// ExistsBySKU checks SKU uniqueness, ignoring the product excludeID
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error)

	// CountForTenant counts all products of a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
