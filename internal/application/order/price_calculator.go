package order

import (
	"context"
	"fmt"
	"strings"

	apppricing "github.com/TreasureUzoma/idolomerch/internal/application/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing errors. Each is reported with the offending slug and wraps
// shared.ErrInvalidInput.
var (
	ErrProductNotFound  = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrInvalidQuantity  = shared.NewDomainError("INVALID_QUANTITY", "Invalid quantity or out-of-stock")
	ErrNonPositiveTotal = shared.NewDomainError("INVALID_TOTAL", "Order total must be greater than zero")
	ErrEmptyOrder       = shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one product")
)

// ProductFinder loads products for pricing regardless of visibility
type ProductFinder interface {
	FindBySlugs(ctx context.Context, tenantID uuid.UUID, slugs []string) ([]catalog.Product, error)
}

// LineItem is one requested product. Client-side prices are never read.
type LineItem struct {
	Slug     string
	Quantity int
}

// PricedLine is a line item priced from the catalog
type PricedLine struct {
	Product   *catalog.Product
	Quantity  int
	UnitPrice valueobject.Money
	// LineTotal is in the quote currency
	LineTotal decimal.Decimal
}

// Quote is the server-side price of a cart
type Quote struct {
	Subtotal valueobject.Money
	Lines    []PricedLine
}

// PriceCalculator prices carts from the catalog in the base currency
type PriceCalculator struct {
	products ProductFinder
	rates    pricing.RateProvider
}

// NewPriceCalculator creates a new PriceCalculator
func NewPriceCalculator(products ProductFinder, rates pricing.RateProvider) *PriceCalculator {
	return &PriceCalculator{products: products, rates: rates}
}

// Calculate prices items. Every slug must exist, every quantity must be
// positive and in stock, and the total must be positive.
func (c *PriceCalculator) Calculate(ctx context.Context, tenantID uuid.UUID, items []LineItem) (*Quote, error) {
	if len(items) == 0 {
		return nil, shared.WrapDomainError(ErrEmptyOrder.Code, ErrEmptyOrder.Message, shared.ErrInvalidInput)
	}

	normalized := make([]LineItem, len(items))
	slugs := make([]string, 0, len(items))
	wanted := make(map[string]int, len(items))
	for i, item := range items {
		item.Slug = strings.ToLower(strings.TrimSpace(item.Slug))
		if item.Quantity <= 0 {
			return nil, invalidQuantity(item.Slug)
		}
		if _, seen := wanted[item.Slug]; !seen {
			slugs = append(slugs, item.Slug)
		}
		wanted[item.Slug] += item.Quantity
		normalized[i] = item
	}

	found, err := c.products.FindBySlugs(ctx, tenantID, slugs)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]*catalog.Product, len(found))
	for i := range found {
		bySlug[found[i].Slug] = &found[i]
	}

	for _, slug := range slugs {
		product, ok := bySlug[slug]
		if !ok {
			return nil, shared.WrapDomainError(ErrProductNotFound.Code,
				fmt.Sprintf("Product not found for slug %s", slug), shared.ErrInvalidInput)
		}
		if err := product.CheckAvailability(wanted[slug]); err != nil {
			return nil, invalidQuantity(slug)
		}
	}

	rates := make(map[valueobject.Currency]decimal.Decimal)
	subtotal := decimal.Zero
	lines := make([]PricedLine, 0, len(normalized))
	for _, item := range normalized {
		product := bySlug[item.Slug]
		unit := product.SalePriceMoney()

		rate, ok := rates[unit.Currency()]
		if !ok {
			if rate, err = c.rateToBase(ctx, unit.Currency()); err != nil {
				return nil, err
			}
			rates[unit.Currency()] = rate
		}

		lineTotal := unit.Amount().Mul(decimal.NewFromInt(int64(item.Quantity))).Mul(rate).Round(valueobject.MoneyScale)
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, PricedLine{
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
	}

	subtotal = subtotal.Round(valueobject.MoneyScale)
	if !subtotal.IsPositive() {
		return nil, shared.WrapDomainError(ErrNonPositiveTotal.Code, ErrNonPositiveTotal.Message, shared.ErrInvalidInput)
	}

	return &Quote{
		Subtotal: valueobject.NewMoneyUSD(subtotal),
		Lines:    lines,
	}, nil
}

func (c *PriceCalculator) rateToBase(ctx context.Context, from valueobject.Currency) (decimal.Decimal, error) {
	if from == valueobject.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, err := c.rates.GetRate(ctx, from, valueobject.BaseCurrency)
	if err != nil {
		return decimal.Zero, apppricing.UpstreamError(err)
	}
	return rate, nil
}

func invalidQuantity(slug string) error {
	return shared.WrapDomainError(ErrInvalidQuantity.Code,
		fmt.Sprintf("Invalid quantity or out-of-stock for product slug %s", slug), shared.ErrInvalidInput)
}
