package catalog

import (
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the admin payload for a new product. Prices are
// in Currency and are converted to the base currency before they are stored.
type CreateProductRequest struct {
	Name               string           `json:"name" binding:"required,min=3,max=200"`
	Slug               string           `json:"slug" binding:"required,slug"`
	Description        string           `json:"description" binding:"max=10000"`
	ShortDescription   string           `json:"shortDescription" binding:"max=500"`
	SKU                string           `json:"sku" binding:"required,max=50"`
	Barcode            string           `json:"barcode" binding:"max=50"`
	Category           string           `json:"category" binding:"required"`
	Price              *decimal.Decimal `json:"price" binding:"required"`
	CostPrice          *decimal.Decimal `json:"costPrice" binding:"required"`
	Currency           string           `json:"currency" binding:"omitempty,currency"`
	StockQuantity      int              `json:"stockQuantity" binding:"min=0"`
	InventoryTracking  *bool            `json:"inventoryTracking"`
	DiscountPercentage int              `json:"discountPercentage" binding:"min=0,max=100"`
	LowStockThreshold  *int             `json:"lowStockThreshold" binding:"omitempty,min=0"`
	Sizes              []string         `json:"sizes"`
	Color              string           `json:"color" binding:"max=50"`
	LimitedEdition     bool             `json:"limitedEdition"`
	DropDate           *time.Time       `json:"dropDate"`
	Weight             *decimal.Decimal `json:"weight"`
	RequiresShipping   *bool            `json:"requiresShipping"`
	MainImage          string           `json:"mainImage" binding:"omitempty,url"`
	GalleryImages      []string         `json:"galleryImages" binding:"omitempty,dive,url"`
	Tags               []string         `json:"tags"`
	Attributes         map[string]any   `json:"attributes"`
	IsFeatured         bool             `json:"isFeatured"`
	IsNew              bool             `json:"isNew"`
	Status             string           `json:"status"`
	Visibility         string           `json:"visibility"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
// Price and CostPrice are in Currency, or the base currency when it is empty.
type UpdateProductRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=3,max=200"`
	Slug               *string          `json:"slug" binding:"omitempty,slug"`
	Description        *string          `json:"description" binding:"omitempty,max=10000"`
	ShortDescription   *string          `json:"shortDescription" binding:"omitempty,max=500"`
	SKU                *string          `json:"sku" binding:"omitempty,min=1,max=50"`
	Barcode            *string          `json:"barcode" binding:"omitempty,max=50"`
	Category           *string          `json:"category"`
	Price              *decimal.Decimal `json:"price"`
	CostPrice          *decimal.Decimal `json:"costPrice"`
	Currency           string           `json:"currency" binding:"omitempty,currency"`
	StockQuantity      *int             `json:"stockQuantity" binding:"omitempty,min=0"`
	InventoryTracking  *bool            `json:"inventoryTracking"`
	DiscountPercentage *int             `json:"discountPercentage" binding:"omitempty,min=0,max=100"`
	LowStockThreshold  *int             `json:"lowStockThreshold" binding:"omitempty,min=0"`
	Sizes              []string         `json:"sizes"`
	Color              *string          `json:"color" binding:"omitempty,max=50"`
	LimitedEdition     *bool            `json:"limitedEdition"`
	DropDate           *time.Time       `json:"dropDate"`
	Weight             *decimal.Decimal `json:"weight"`
	RequiresShipping   *bool            `json:"requiresShipping"`
	MainImage          *string          `json:"mainImage" binding:"omitempty,url"`
	GalleryImages      []string         `json:"galleryImages" binding:"omitempty,dive,url"`
	Tags               []string         `json:"tags"`
	Attributes         map[string]any   `json:"attributes"`
	IsFeatured         *bool            `json:"isFeatured"`
	IsNew              *bool            `json:"isNew"`
	Status             *string          `json:"status"`
	Visibility         *string          `json:"visibility"`
}

// ListProductsParams are the storefront and admin listing options
type ListProductsParams struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest oldest price-asc price-desc"`
	Currency string `form:"currency" binding:"omitempty,currency"`
}

// ProductResponse is the storefront view of a product. Price is in Currency,
// the display currency the shopper asked for.
type ProductResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	ShortDescription   string          `json:"shortDescription"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	Currency           string          `json:"currency"`
	DiscountPercentage int             `json:"discountPercentage"`
	StockQuantity      int             `json:"stockQuantity"`
	Sizes              []string        `json:"sizes"`
	Color              string          `json:"color,omitempty"`
	LimitedEdition     bool            `json:"limitedEdition"`
	RequiresShipping   bool            `json:"requiresShipping"`
	MainImage          string          `json:"mainImage,omitempty"`
	GalleryImages      []string        `json:"galleryImages"`
	Tags               []string        `json:"tags"`
	Attributes         map[string]any  `json:"attributes,omitempty"`
	IsFeatured         bool            `json:"isFeatured"`
	IsNew              bool            `json:"isNew"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// AdminProductResponse adds the fields only admins see
type AdminProductResponse struct {
	ProductResponse
	SKU               string           `json:"sku"`
	Barcode           string           `json:"barcode,omitempty"`
	CostPrice         decimal.Decimal  `json:"costPrice"`
	Status            string           `json:"status"`
	Visibility        string           `json:"visibility"`
	InventoryTracking bool             `json:"inventoryTracking"`
	LowStockThreshold int              `json:"lowStockThreshold"`
	IsLowStock        bool             `json:"isLowStock"`
	DropDate          *time.Time       `json:"dropDate,omitempty"`
	Weight            *decimal.Decimal `json:"weight,omitempty"`
	UpdatedAt         time.Time        `json:"updatedAt"`
	Version           int              `json:"version"`
}

// ToProductResponse builds the storefront view. price is the sale price
// already converted to currency.
func ToProductResponse(p *catalog.Product, price decimal.Decimal, currency string) ProductResponse {
	sizes := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = string(s)
	}
	return ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		ShortDescription:   p.ShortDescription,
		Category:           string(p.Category),
		Price:              price,
		Currency:           currency,
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		Sizes:              sizes,
		Color:              p.Color,
		LimitedEdition:     p.LimitedEdition,
		RequiresShipping:   p.RequiresShipping,
		MainImage:          p.MainImage,
		GalleryImages:      nonNil(p.GalleryImages),
		Tags:               nonNil(p.Tags),
		Attributes:         p.Attributes,
		IsFeatured:         p.IsFeatured,
		IsNew:              p.IsNew,
		CreatedAt:          p.CreatedAt,
	}
}

// ToAdminProductResponse builds the admin view in the stored currency
func ToAdminProductResponse(p *catalog.Product) AdminProductResponse {
	return AdminProductResponse{
		ProductResponse:   ToProductResponse(p, p.SalePrice, p.SalePriceMoney().Currency().String()),
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		CostPrice:         p.CostPrice,
		Status:            string(p.Status),
		Visibility:        string(p.Visibility),
		InventoryTracking: p.InventoryTracking,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		DropDate:          p.DropDate,
		Weight:            p.Weight,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
