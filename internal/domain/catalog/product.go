package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusDraft        ProductStatus = "draft"
	ProductStatusArchived     ProductStatus = "archived"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// IsValid returns true if the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Visibility controls who can see a product in the storefront
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityPrivate     Visibility = "private"
	VisibilityMembersOnly Visibility = "members-only"
)

// IsValid returns true if the visibility is known
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityMembersOnly:
		return true
	}
	return false
}

// Category is the fixed product taxonomy
type Category string

const (
	CategoryElectronics     Category = "electronics"
	CategoryClothing        Category = "clothing"
	CategoryHomeAppliances  Category = "home_appliances"
	CategoryBooks           Category = "books"
	CategoryToys            Category = "toys"
	CategorySportsEquipment Category = "sports_equipment"
	CategoryBeautyProducts  Category = "beauty_products"
	CategoryAutomotive      Category = "automotive"
	CategoryGroceries       Category = "groceries"
)

var categories = []Category{
	CategoryElectronics, CategoryClothing, CategoryHomeAppliances, CategoryBooks, CategoryToys,
	CategorySportsEquipment, CategoryBeautyProducts, CategoryAutomotive, CategoryGroceries,
}

// IsValid returns true if the category is known
func (c Category) IsValid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// Size is an apparel size option
type Size string

const (
	SizeXS      Size = "XS"
	SizeS       Size = "S"
	SizeM       Size = "M"
	SizeL       Size = "L"
	SizeXL      Size = "XL"
	SizeXXL     Size = "XXL"
	SizeXXXL    Size = "XXXL"
	SizeOneSize Size = "ONE_SIZE"
	SizeCustom  Size = "CUSTOM"
)

// IsValid returns true if the size is known
func (s Size) IsValid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL, SizeOneSize, SizeCustom:
		return true
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// IsValidSlug reports whether s can be used as a product slug
func IsValidSlug(s string) bool {
	return len(s) >= 2 && len(s) <= 50 && slugPattern.MatchString(strings.ToLower(s))
}

// Product is a sellable item in the storefront. Prices are kept in the base
// currency; Currency records which one that is for rows written before
// conversion on write was introduced.
type Product struct {
	shared.TenantAggregateRoot
	Name               string
	Slug               string
	Description        string
	ShortDescription   string
	SKU                string
	Barcode            string
	Status             ProductStatus
	Visibility         Visibility
	Category           Category
	Currency           valueobject.Currency
	CostPrice          decimal.Decimal
	SalePrice          decimal.Decimal
	DiscountPercentage int
	StockQuantity      int
	InventoryTracking  bool
	LowStockThreshold  int
	Sizes              []Size
	Color              string
	LimitedEdition     bool
	DropDate           *time.Time
	Weight             *decimal.Decimal
	RequiresShipping   bool
	MainImage          string
	GalleryImages      []string
	Tags               []string
	Attributes         map[string]any
	IsFeatured         bool
	IsNew              bool
}

// NewProduct creates an active, private product priced in the base currency
func NewProduct(tenantID uuid.UUID, name, slug, sku string, category Category, salePrice, costPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !IsValidSlug(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug can only contain letters, numbers, hyphens, and underscores (2-50 chars)")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown category %q", category))
	}
	if err := validatePrices(salePrice, costPrice); err != nil {
		return nil, err
	}

	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Slug:                slug,
		SKU:                 strings.TrimSpace(sku),
		Category:            category,
		Status:              ProductStatusActive,
		Visibility:          VisibilityPrivate,
		Currency:            valueobject.BaseCurrency,
		InventoryTracking:   true,
		LowStockThreshold:   5,
		RequiresShipping:    true,
		SalePrice:           salePrice.Round(valueobject.MoneyScale),
		CostPrice:           costPrice.Round(valueobject.MoneyScale),
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Rename updates name and slug
func (p *Product) Rename(name, slug string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !IsValidSlug(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug can only contain letters, numbers, hyphens, and underscores (2-50 chars)")
	}
	p.Name = strings.TrimSpace(name)
	p.Slug = slug
	p.touch()
	return nil
}

// SetPrices sets sale and cost price. Both must already be in the base currency.
func (p *Product) SetPrices(salePrice, costPrice decimal.Decimal) error {
	if err := validatePrices(salePrice, costPrice); err != nil {
		return err
	}

	oldSale := p.SalePrice
	p.SalePrice = salePrice.Round(valueobject.MoneyScale)
	p.CostPrice = costPrice.Round(valueobject.MoneyScale)
	p.Currency = valueobject.BaseCurrency
	p.touch()

	if !oldSale.Equal(p.SalePrice) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldSale))
	}
	return nil
}

// SetDiscount sets the advertised discount percentage
func (p *Product) SetDiscount(percent int) error {
	if percent < 0 || percent > 100 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}
	p.DiscountPercentage = percent
	p.touch()
	return nil
}

// SetStock sets stock level and tracking options
func (p *Product) SetStock(quantity int, tracking bool, lowStockThreshold int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	if lowStockThreshold < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Low stock threshold cannot be negative")
	}
	p.StockQuantity = quantity
	p.InventoryTracking = tracking
	p.LowStockThreshold = lowStockThreshold
	p.touch()
	return nil
}

// SetStatus changes the lifecycle status
func (p *Product) SetStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown product status %q", status))
	}
	p.Status = status
	p.touch()
	return nil
}

// SetVisibility changes storefront visibility
func (p *Product) SetVisibility(v Visibility) error {
	if !v.IsValid() {
		return shared.NewDomainError("INVALID_VISIBILITY", fmt.Sprintf("Unknown visibility %q", v))
	}
	p.Visibility = v
	p.touch()
	return nil
}

// SetCategory changes the category
func (p *Product) SetCategory(c Category) error {
	if !c.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown category %q", c))
	}
	p.Category = c
	p.touch()
	return nil
}

// SetSizes replaces the size options
func (p *Product) SetSizes(sizes []Size) error {
	for _, s := range sizes {
		if !s.IsValid() {
			return shared.NewDomainError("INVALID_SIZE", fmt.Sprintf("Unknown size %q", s))
		}
	}
	p.Sizes = sizes
	p.touch()
	return nil
}

// IsPubliclyVisible returns true if anonymous shoppers may see the product
func (p *Product) IsPubliclyVisible() bool {
	return p.Status == ProductStatusActive && p.Visibility == VisibilityPublic
}

// IsLowStock returns true if a tracked product is at or below its threshold
func (p *Product) IsLowStock() bool {
	return p.InventoryTracking && p.StockQuantity <= p.LowStockThreshold
}

// CheckAvailability verifies that quantity units can be sold
func (p *Product) CheckAvailability(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Invalid quantity for product slug %s", p.Slug))
	}
	if p.InventoryTracking && p.StockQuantity < quantity {
		return shared.WrapDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Invalid quantity or out-of-stock for product slug %s", p.Slug), shared.ErrInsufficientStock)
	}
	return nil
}

// SalePriceMoney returns the sale price with its currency
func (p *Product) SalePriceMoney() valueobject.Money {
	currency := p.Currency
	if currency == "" {
		currency = valueobject.BaseCurrency
	}
	m, err := valueobject.NewMoney(p.SalePrice, currency)
	if err != nil {
		return valueobject.NewMoneyUSD(p.SalePrice)
	}
	return m
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be at least 3 characters")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrices(salePrice, costPrice decimal.Decimal) error {
	if salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	return nil
}
