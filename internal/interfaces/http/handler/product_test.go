package handler

import (
	"context"
	"net/http"
	"testing"

	catalogapp "github.com/TreasureUzoma/idolomerch/internal/application/catalog"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) ListPublic(ctx context.Context, tenantID uuid.UUID, params catalogapp.ListProductsParams) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductCatalog) GetPublic(ctx context.Context, tenantID uuid.UUID, slug, currency string) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, slug, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductCatalog) ListAdmin(ctx context.Context, tenantID uuid.UUID, params catalogapp.ListProductsParams) (*shared.Paginated[catalogapp.AdminProductResponse], error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.AdminProductResponse]), args.Error(1)
}

func (m *MockProductCatalog) GetAdmin(ctx context.Context, tenantID uuid.UUID, idOrSlug string) (*catalogapp.AdminProductResponse, error) {
	args := m.Called(ctx, tenantID, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.AdminProductResponse), args.Error(1)
}

func (m *MockProductCatalog) Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.AdminProductResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.AdminProductResponse), args.Error(1)
}

func (m *MockProductCatalog) Update(ctx context.Context, tenantID uuid.UUID, id string, req catalogapp.UpdateProductRequest) (*catalogapp.AdminProductResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.AdminProductResponse), args.Error(1)
}

func (m *MockProductCatalog) Delete(ctx context.Context, tenantID uuid.UUID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func TestProductHandler_List(t *testing.T) {
	products := new(MockProductCatalog)
	router := newRouter()
	router.GET("/products", NewProductHandler(products).List)

	products.On("ListPublic", mock.Anything, testTenant, catalogapp.ListProductsParams{Sort: "price-asc", Currency: "NGN"}).
		Return(&shared.Paginated[catalogapp.ProductResponse]{
			Items:    []catalogapp.ProductResponse{{Slug: "idol-tee", Currency: "NGN"}},
			Total:    1,
			Page:     1,
			PageSize: 15,
		}, nil)

	w := doJSON(router, http.MethodGet, "/products?sort=price-asc&currency=NGN", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	assert.Contains(t, string(env.Data), "idol-tee")
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalPages)

	w = doJSON(router, http.MethodGet, "/products?sort=cheapest", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/products?currency=XYZ", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_GetBySlug(t *testing.T) {
	products := new(MockProductCatalog)
	router := newRouter()
	router.GET("/products/:slug", NewProductHandler(products).GetBySlug)

	products.On("GetPublic", mock.Anything, testTenant, "idol-tee", "").Return(&catalogapp.ProductResponse{Slug: "idol-tee"}, nil)
	products.On("GetPublic", mock.Anything, testTenant, "gone", "").Return(nil, shared.ErrNotFound)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/products/idol-tee", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/products/gone", nil).Code)
}

func TestProductHandler_Create(t *testing.T) {
	products := new(MockProductCatalog)
	router := newRouter()
	router.POST("/admin/products", NewProductHandler(products).Create)

	valid := map[string]any{
		"name": "Idol Tee", "slug": "idol-tee", "sku": "TEE-1", "category": "shirts",
		"price": "25.00", "costPrice": "10.00", "stockQuantity": 5,
	}
	products.On("Create", mock.Anything, testTenant, mock.MatchedBy(func(req catalogapp.CreateProductRequest) bool {
		return req.Slug == "idol-tee" && req.Price.String() == "25"
	})).Return(&catalogapp.AdminProductResponse{ProductResponse: catalogapp.ProductResponse{Slug: "idol-tee"}, Status: "active", Visibility: "private"}, nil).Once()

	w := doJSON(router, http.MethodPost, "/admin/products", valid)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"visibility":"private"`)

	invalid := map[string]any{"name": "Idol Tee", "slug": "Not A Slug", "sku": "TEE-1", "category": "shirts", "price": "1", "costPrice": "1"}
	w = doJSON(router, http.MethodPost, "/admin/products", invalid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotEmpty(t, env.Error.Details)
	assert.Equal(t, "slug", env.Error.Details[0].Field)

	products.On("Create", mock.Anything, testTenant, mock.Anything).
		Return(nil, shared.WrapDomainError("ALREADY_EXISTS", "Slug already in use", shared.ErrAlreadyExists)).Once()
	w = doJSON(router, http.MethodPost, "/admin/products", valid)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	products := new(MockProductCatalog)
	h := NewProductHandler(products)
	router := newRouter()
	router.PUT("/admin/products/:id", h.Update)
	router.DELETE("/admin/products/:id", h.Delete)

	id := uuid.NewString()
	products.On("Update", mock.Anything, testTenant, id, mock.MatchedBy(func(req catalogapp.UpdateProductRequest) bool {
		return req.Name != nil && *req.Name == "Renamed Tee"
	})).Return(&catalogapp.AdminProductResponse{ProductResponse: catalogapp.ProductResponse{Name: "Renamed Tee"}}, nil)
	products.On("Delete", mock.Anything, testTenant, id).Return(nil)

	w := doJSON(router, http.MethodPut, "/admin/products/"+id, map[string]any{"name": "Renamed Tee"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodDelete, "/admin/products/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}
