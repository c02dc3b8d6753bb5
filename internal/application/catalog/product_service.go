package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apppricing "github.com/TreasureUzoma/idolomerch/internal/application/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles storefront and admin product operations
type ProductService struct {
	productRepo catalog.ProductRepository
	rates       pricing.RateProvider
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	rates pricing.RateProvider,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		rates:       rates,
		events:      events,
		logger:      logger,
	}
}

// ListPublic returns active, public products with prices in the requested currency
func (s *ProductService) ListPublic(ctx context.Context, tenantID uuid.UUID, params ListProductsParams) (*shared.Paginated[ProductResponse], error) {
	currency, err := parseCurrency(params.Currency)
	if err != nil {
		return nil, err
	}
	query, err := buildQuery(params, true)
	if err != nil {
		return nil, err
	}

	products, total, err := s.productRepo.FindPage(ctx, tenantID, query)
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromInt(1)
	if len(products) > 0 && currency != valueobject.BaseCurrency {
		if rate, err = s.rates.GetRate(ctx, valueobject.BaseCurrency, currency); err != nil {
			return nil, apppricing.UpstreamError(err)
		}
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		price := products[i].SalePrice.Mul(rate).Round(valueobject.MoneyScale)
		items[i] = ToProductResponse(&products[i], price, currency.String())
	}

	page := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &page, nil
}

// GetPublic returns one active, public product by slug
func (s *ProductService) GetPublic(ctx context.Context, tenantID uuid.UUID, slug, currencyCode string) (*ProductResponse, error) {
	currency, err := parseCurrency(currencyCode)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindBySlug(ctx, tenantID, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}
	if !product.IsPubliclyVisible() {
		return nil, shared.ErrNotFound
	}

	price, err := pricing.Convert(ctx, s.rates, product.SalePrice, valueobject.BaseCurrency, currency)
	if err != nil {
		return nil, apppricing.UpstreamError(err)
	}
	resp := ToProductResponse(product, price, currency.String())
	return &resp, nil
}

// ListAdmin returns products of every status and visibility
func (s *ProductService) ListAdmin(ctx context.Context, tenantID uuid.UUID, params ListProductsParams) (*shared.Paginated[AdminProductResponse], error) {
	query, err := buildQuery(params, false)
	if err != nil {
		return nil, err
	}

	products, total, err := s.productRepo.FindPage(ctx, tenantID, query)
	if err != nil {
		return nil, err
	}

	items := make([]AdminProductResponse, len(products))
	for i := range products {
		items[i] = ToAdminProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &page, nil
}

// GetAdmin finds a product by ID, or by slug when idOrSlug is not a UUID
func (s *ProductService) GetAdmin(ctx context.Context, tenantID uuid.UUID, idOrSlug string) (*AdminProductResponse, error) {
	product, err := s.find(ctx, tenantID, idOrSlug)
	if err != nil {
		return nil, err
	}
	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// Create creates a product. Non-base prices are converted before storing.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*AdminProductResponse, error) {
	currency, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	if req.Price == nil || req.CostPrice == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "price and costPrice are required")
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if err := s.ensureUnique(ctx, tenantID, slug, req.SKU, uuid.Nil); err != nil {
		return nil, err
	}

	salePrice, costPrice, err := s.toBase(ctx, *req.Price, *req.CostPrice, currency)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Name, slug, req.SKU, catalog.Category(req.Category), salePrice, costPrice)
	if err != nil {
		return nil, err
	}

	tracking := true
	if req.InventoryTracking != nil {
		tracking = *req.InventoryTracking
	}
	threshold := product.LowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	if err := product.SetStock(req.StockQuantity, tracking, threshold); err != nil {
		return nil, err
	}
	if err := product.SetDiscount(req.DiscountPercentage); err != nil {
		return nil, err
	}
	if err := product.SetSizes(toSizes(req.Sizes)); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := product.SetStatus(catalog.ProductStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Visibility != "" {
		if err := product.SetVisibility(catalog.Visibility(req.Visibility)); err != nil {
			return nil, err
		}
	}

	product.Description = req.Description
	product.ShortDescription = req.ShortDescription
	product.Barcode = strings.TrimSpace(req.Barcode)
	product.Color = req.Color
	product.LimitedEdition = req.LimitedEdition
	product.DropDate = req.DropDate
	product.Weight = req.Weight
	if req.RequiresShipping != nil {
		product.RequiresShipping = *req.RequiresShipping
	}
	product.MainImage = req.MainImage
	product.GalleryImages = req.GalleryImages
	product.Tags = req.Tags
	product.Attributes = req.Attributes
	product.IsFeatured = req.IsFeatured
	product.IsNew = req.IsNew

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	s.logger.Info("Product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// Update applies a partial update
func (s *ProductService) Update(ctx context.Context, tenantID uuid.UUID, id string, req UpdateProductRequest) (*AdminProductResponse, error) {
	product, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Slug != nil {
		name, slug := product.Name, product.Slug
		if req.Name != nil {
			name = *req.Name
		}
		if req.Slug != nil {
			slug = strings.ToLower(strings.TrimSpace(*req.Slug))
		}
		if slug != product.Slug {
			if err := s.ensureUnique(ctx, tenantID, slug, "", product.ID); err != nil {
				return nil, err
			}
		}
		if err := product.Rename(name, slug); err != nil {
			return nil, err
		}
	}
	if req.SKU != nil && strings.TrimSpace(*req.SKU) != product.SKU {
		sku := strings.TrimSpace(*req.SKU)
		if err := s.ensureUnique(ctx, tenantID, "", sku, product.ID); err != nil {
			return nil, err
		}
		product.SKU = sku
	}

	if req.Price != nil || req.CostPrice != nil {
		currency, err := parseCurrency(req.Currency)
		if err != nil {
			return nil, err
		}
		salePrice, costPrice := product.SalePrice, product.CostPrice
		if req.Price != nil {
			if salePrice, err = s.convert(ctx, *req.Price, currency); err != nil {
				return nil, err
			}
		}
		if req.CostPrice != nil {
			if costPrice, err = s.convert(ctx, *req.CostPrice, currency); err != nil {
				return nil, err
			}
		}
		if err := product.SetPrices(salePrice, costPrice); err != nil {
			return nil, err
		}
	}

	if req.StockQuantity != nil || req.InventoryTracking != nil || req.LowStockThreshold != nil {
		quantity, tracking, threshold := product.StockQuantity, product.InventoryTracking, product.LowStockThreshold
		if req.StockQuantity != nil {
			quantity = *req.StockQuantity
		}
		if req.InventoryTracking != nil {
			tracking = *req.InventoryTracking
		}
		if req.LowStockThreshold != nil {
			threshold = *req.LowStockThreshold
		}
		if err := product.SetStock(quantity, tracking, threshold); err != nil {
			return nil, err
		}
	}
	if req.DiscountPercentage != nil {
		if err := product.SetDiscount(*req.DiscountPercentage); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if err := product.SetCategory(catalog.Category(*req.Category)); err != nil {
			return nil, err
		}
	}
	if req.Sizes != nil {
		if err := product.SetSizes(toSizes(req.Sizes)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := product.SetStatus(catalog.ProductStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Visibility != nil {
		if err := product.SetVisibility(catalog.Visibility(*req.Visibility)); err != nil {
			return nil, err
		}
	}

	setIf(&product.Description, req.Description)
	setIf(&product.ShortDescription, req.ShortDescription)
	setIf(&product.Barcode, req.Barcode)
	setIf(&product.Color, req.Color)
	setIf(&product.MainImage, req.MainImage)
	setIf(&product.LimitedEdition, req.LimitedEdition)
	setIf(&product.RequiresShipping, req.RequiresShipping)
	setIf(&product.IsFeatured, req.IsFeatured)
	setIf(&product.IsNew, req.IsNew)
	if req.DropDate != nil {
		product.DropDate = req.DropDate
	}
	if req.Weight != nil {
		product.Weight = req.Weight
	}
	if req.GalleryImages != nil {
		product.GalleryImages = req.GalleryImages
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.Attributes != nil {
		product.Attributes = req.Attributes
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToAdminProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID uuid.UUID, id string) error {
	product, err := s.find(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteForTenant(ctx, tenantID, product.ID); err != nil {
		return err
	}
	if err := s.events.Publish(ctx, catalog.NewProductDeletedEvent(product)); err != nil {
		s.logger.Warn("Failed to publish product events", zap.Error(err))
	}
	return nil
}

func (s *ProductService) find(ctx context.Context, tenantID uuid.UUID, idOrSlug string) (*catalog.Product, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	}
	return s.productRepo.FindBySlug(ctx, tenantID, strings.ToLower(idOrSlug))
}

func (s *ProductService) ensureUnique(ctx context.Context, tenantID uuid.UUID, slug, sku string, excludeID uuid.UUID) error {
	if slug != "" {
		exists, err := s.productRepo.ExistsBySlug(ctx, tenantID, slug, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.WrapDomainError("ALREADY_EXISTS", fmt.Sprintf("Product with slug %s already exists", slug), shared.ErrAlreadyExists)
		}
	}
	if sku = strings.TrimSpace(sku); sku != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, sku, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.WrapDomainError("ALREADY_EXISTS", fmt.Sprintf("Product with SKU %s already exists", sku), shared.ErrAlreadyExists)
		}
	}
	return nil
}

func (s *ProductService) toBase(ctx context.Context, salePrice, costPrice decimal.Decimal, currency valueobject.Currency) (decimal.Decimal, decimal.Decimal, error) {
	if currency == valueobject.BaseCurrency {
		return salePrice.Round(valueobject.MoneyScale), costPrice.Round(valueobject.MoneyScale), nil
	}
	rate, err := s.rates.GetRate(ctx, currency, valueobject.BaseCurrency)
	if err != nil {
		return decimal.Zero, decimal.Zero, apppricing.UpstreamError(err)
	}
	return salePrice.Mul(rate).Round(valueobject.MoneyScale), costPrice.Mul(rate).Round(valueobject.MoneyScale), nil
}

func (s *ProductService) convert(ctx context.Context, amount decimal.Decimal, currency valueobject.Currency) (decimal.Decimal, error) {
	converted, err := pricing.Convert(ctx, s.rates, amount, currency, valueobject.BaseCurrency)
	if err != nil {
		return decimal.Zero, apppricing.UpstreamError(err)
	}
	return converted, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events", zap.Error(err))
	}
}

func buildQuery(params ListProductsParams, publicOnly bool) (catalog.ProductQuery, error) {
	sort := catalog.ProductSort(params.Sort)
	if sort == "" {
		sort = catalog.SortNewest
	}
	if !sort.IsValid() {
		return catalog.ProductQuery{}, shared.WrapDomainError("INVALID_SORT", fmt.Sprintf("Unknown sort %q", params.Sort), shared.ErrInvalidInput)
	}
	category := catalog.Category(strings.TrimSpace(params.Category))
	if category != "" && !category.IsValid() {
		return catalog.ProductQuery{}, shared.WrapDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown category %q", params.Category), shared.ErrInvalidInput)
	}

	filter := shared.Filter{
		Page:     params.Page,
		PageSize: params.Limit,
		Search:   strings.TrimSpace(params.Search),
	}.Normalize()

	return catalog.ProductQuery{
		Filter:     filter,
		Category:   category,
		Sort:       sort,
		PublicOnly: publicOnly,
	}, nil
}

func parseCurrency(code string) (valueobject.Currency, error) {
	currency, err := valueobject.ParseCurrency(code)
	if err != nil {
		if errors.Is(err, valueobject.ErrInvalidCurrency) {
			return "", shared.WrapDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", code), shared.ErrInvalidInput)
		}
		return "", err
	}
	return currency, nil
}

func toSizes(values []string) []catalog.Size {
	sizes := make([]catalog.Size, len(values))
	for i, v := range values {
		sizes[i] = catalog.Size(strings.ToUpper(strings.TrimSpace(v)))
	}
	return sizes
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
