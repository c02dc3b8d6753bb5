package models

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantAggregateModel
	Name               string                `gorm:"type:varchar(200);not null"`
	Slug               string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_tenant_slug,priority:2"`
	Description        string                `gorm:"type:text"`
	ShortDescription   string                `gorm:"type:varchar(500)"`
	SKU                string                `gorm:"column:sku;type:varchar(50);not null"`
	Barcode            string                `gorm:"type:varchar(50)"`
	Status             catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Visibility         catalog.Visibility    `gorm:"type:varchar(20);not null;default:'private'"`
	Category           catalog.Category      `gorm:"type:varchar(30);not null"`
	Currency           valueobject.Currency  `gorm:"type:char(3);not null;default:'USD'"`
	CostPrice          decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	SalePrice          decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	DiscountPercentage int                   `gorm:"not null;default:0"`
	StockQuantity      int                   `gorm:"not null;default:0"`
	InventoryTracking  bool                  `gorm:"not null"`
	LowStockThreshold  int                   `gorm:"not null"`
	Sizes              pq.StringArray        `gorm:"type:text[]"`
	Color              string                `gorm:"type:varchar(50)"`
	LimitedEdition     bool                  `gorm:"not null;default:false"`
	DropDate           *time.Time
	Weight             *decimal.Decimal `gorm:"type:decimal(10,3)"`
	RequiresShipping   bool             `gorm:"not null"`
	MainImage          string           `gorm:"type:text"`
	GalleryImages      pq.StringArray   `gorm:"type:text[]"`
	Tags               pq.StringArray   `gorm:"type:text[]"`
	Attributes         JSONMap          `gorm:"type:jsonb"`
	IsFeatured         bool             `gorm:"not null;default:false"`
	IsNew              bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	sizes := make([]catalog.Size, len(m.Sizes))
	for i, s := range m.Sizes {
		sizes[i] = catalog.Size(s)
	}
	return &catalog.Product{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Slug:                m.Slug,
		Description:         m.Description,
		ShortDescription:    m.ShortDescription,
		SKU:                 m.SKU,
		Barcode:             m.Barcode,
		Status:              m.Status,
		Visibility:          m.Visibility,
		Category:            m.Category,
		Currency:            m.Currency,
		CostPrice:           m.CostPrice,
		SalePrice:           m.SalePrice,
		DiscountPercentage:  m.DiscountPercentage,
		StockQuantity:       m.StockQuantity,
		InventoryTracking:   m.InventoryTracking,
		LowStockThreshold:   m.LowStockThreshold,
		Sizes:               sizes,
		Color:               m.Color,
		LimitedEdition:      m.LimitedEdition,
		DropDate:            m.DropDate,
		Weight:              m.Weight,
		RequiresShipping:    m.RequiresShipping,
		MainImage:           m.MainImage,
		GalleryImages:       []string(m.GalleryImages),
		Tags:                []string(m.Tags),
		Attributes:          map[string]any(m.Attributes),
		IsFeatured:          m.IsFeatured,
		IsNew:               m.IsNew,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.ShortDescription = p.ShortDescription
	m.SKU = p.SKU
	m.Barcode = p.Barcode
	m.Status = p.Status
	m.Visibility = p.Visibility
	m.Category = p.Category
	m.Currency = p.Currency
	m.CostPrice = p.CostPrice
	m.SalePrice = p.SalePrice
	m.DiscountPercentage = p.DiscountPercentage
	m.StockQuantity = p.StockQuantity
	m.InventoryTracking = p.InventoryTracking
	m.LowStockThreshold = p.LowStockThreshold
	m.Sizes = make(pq.StringArray, len(p.Sizes))
	for i, s := range p.Sizes {
		m.Sizes[i] = string(s)
	}
	m.Color = p.Color
	m.LimitedEdition = p.LimitedEdition
	m.DropDate = p.DropDate
	m.Weight = p.Weight
	m.RequiresShipping = p.RequiresShipping
	m.MainImage = p.MainImage
	m.GalleryImages = nonNilStrings(p.GalleryImages)
	m.Tags = nonNilStrings(p.Tags)
	m.Attributes = JSONMap(p.Attributes)
	m.IsFeatured = p.IsFeatured
	m.IsNew = p.IsNew
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// text[] columns are NOT NULL
func nonNilStrings(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}
