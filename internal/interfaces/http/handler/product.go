package handler

import (
	"context"
	"net/http"

	catalogapp "github.com/TreasureUzoma/idolomerch/internal/application/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductCatalog is the product use-case surface the handlers need
type ProductCatalog interface {
	ListPublic(ctx context.Context, tenantID uuid.UUID, params catalogapp.ListProductsParams) (*shared.Paginated[catalogapp.ProductResponse], error)
	GetPublic(ctx context.Context, tenantID uuid.UUID, slug, currency string) (*catalogapp.ProductResponse, error)
	ListAdmin(ctx context.Context, tenantID uuid.UUID, params catalogapp.ListProductsParams) (*shared.Paginated[catalogapp.AdminProductResponse], error)
	GetAdmin(ctx context.Context, tenantID uuid.UUID, idOrSlug string) (*catalogapp.AdminProductResponse, error)
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.AdminProductResponse, error)
	Update(ctx context.Context, tenantID uuid.UUID, id string, req catalogapp.UpdateProductRequest) (*catalogapp.AdminProductResponse, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id string) error
}

// ProductHandler serves the storefront and admin product endpoints
type ProductHandler struct {
	BaseHandler
	products ProductCatalog
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductCatalog) *ProductHandler {
	return &ProductHandler{products: products}
}

// List godoc
// @Summary      List products
// @Description  Active, public products with prices in the requested currency
// @Tags         products
// @Produce      json
// @Param        page      query  int     false  "Page number" default(1)
// @Param        limit     query  int     false  "Page size" default(15)
// @Param        search    query  string  false  "Name search"
// @Param        category  query  string  false  "Category"
// @Param        sort      query  string  false  "newest, oldest, price-asc or price-desc"
// @Param        currency  query  string  false  "Display currency" default(USD)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var params catalogapp.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	page, err := h.products.ListPublic(c.Request.Context(), tenant, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetBySlug godoc
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        slug      path   string  true   "Product slug"
// @Param        currency  query  string  false  "Display currency" default(USD)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{slug} [get]
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	product, err := h.products.GetPublic(c.Request.Context(), tenant, c.Param("slug"), c.Query("currency"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AdminList godoc
// @Summary      List products (admin)
// @Description  Products of every status and visibility
// @Tags         admin-products
// @Produce      json
// @Param        page    query  int     false  "Page number" default(1)
// @Param        limit   query  int     false  "Page size" default(15)
// @Param        search  query  string  false  "Name search"
// @Success      200 {object} APIResponse[[]catalogapp.AdminProductResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *ProductHandler) AdminList(c *gin.Context) {
	var params catalogapp.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	page, err := h.products.ListAdmin(c.Request.Context(), tenant, params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AdminGet godoc
// @Summary      Get product (admin)
// @Tags         admin-products
// @Produce      json
// @Param        id  path  string  true  "Product ID or slug"
// @Success      200 {object} APIResponse[catalogapp.AdminProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) AdminGet(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	product, err := h.products.GetAdmin(c.Request.Context(), tenant, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create product
// @Description  Prices sent in a non-base currency are converted before they are stored
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request  body  catalogapp.CreateProductRequest  true  "Product"
// @Success      201 {object} APIResponse[catalogapp.AdminProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	product, err := h.products.Create(c.Request.Context(), tenant, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Product ID"
// @Param        request  body  catalogapp.UpdateProductRequest  true  "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.AdminProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}

	product, err := h.products.Update(c.Request.Context(), tenant, c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete product
// @Tags         admin-products
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200 {object} SuccessResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenant, ok := h.requireTenant(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), tenant, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
