package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	orderapp "github.com/TreasureUzoma/idolomerch/internal/application/order"
	paymentapp "github.com/TreasureUzoma/idolomerch/internal/application/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/auth"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/handler"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items")
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("", ok).POST("", ok).PUT("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method+" "+tc.path)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("applies middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("outer", "/outer").Use(func(c *gin.Context) {
			c.Header("X-Group", "outer")
			c.Next()
		})
		g.Group("inner", "/inner").GET("/leaf", func(c *gin.Context) { c.String(http.StatusOK, "leaf") })
		g.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outer/inner/leaf", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "outer", w.Header().Get("X-Group"))
	})
}

type stubOrders struct {
	tenant uuid.UUID
}

func (s *stubOrders) GetPublic(_ context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error) {
	s.tenant = tenantID
	return &orderapp.OrderResponse{ID: id}, nil
}

func (s *stubOrders) List(_ context.Context, tenantID uuid.UUID, _ orderapp.ListOrdersParams) (*shared.Paginated[orderapp.AdminOrderResponse], error) {
	s.tenant = tenantID
	return &shared.Paginated[orderapp.AdminOrderResponse]{Items: []orderapp.AdminOrderResponse{}, Page: 1, PageSize: 15}, nil
}

func (s *stubOrders) Get(context.Context, uuid.UUID, uuid.UUID) (*orderapp.AdminOrderResponse, error) {
	return nil, shared.ErrNotFound
}

func (s *stubOrders) Update(context.Context, uuid.UUID, uuid.UUID, orderapp.AdminUpdateOrderRequest) (*orderapp.AdminOrderResponse, error) {
	return nil, shared.ErrNotFound
}

func (s *stubOrders) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return shared.ErrNotFound
}

type stubIPN struct{}

func (stubIPN) ProcessIPN(context.Context, []byte, string) (*paymentapp.IPNResult, error) {
	return &paymentapp.IPNResult{Success: true, Message: "ok"}, nil
}

var defaultTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func testEngine(t *testing.T, httpCfg config.HTTPConfig) (*Engine, *auth.JWTService, *stubOrders) {
	t.Helper()
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	orders := &stubOrders{}
	e := New(Config{
		ServiceName:     "idolomerch",
		HTTP:            httpCfg,
		DefaultTenantID: defaultTenant,
		TenantHeader:    true,
		JWTService:      jwtSvc,
		TokenBlacklist:  auth.NewInMemoryTokenBlacklist(),
	}, Handlers{
		Health:  handler.NewHealthHandler("idolomerch", "test", nil),
		Order:   handler.NewOrderHandler(nil, orders),
		Webhook: handler.NewWebhookHandler(stubIPN{}, 0),
	})
	t.Cleanup(e.Close)
	return e, jwtSvc, orders
}

func token(t *testing.T, svc *auth.JWTService, tenant uuid.UUID, role string) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenant,
		UserID:   uuid.New(),
		Email:    "someone@example.com",
		Role:     role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func serve(e *Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestNew_PublicRoutes(t *testing.T) {
	e, _, orders := testEngine(t, config.HTTPConfig{})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	id := uuid.New()
	w = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultTenant, orders.tenant)

	other := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id.String(), nil)
	req.Header.Set(middleware.TenantHeaderKey, other.String())
	w = serve(e, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, other, orders.tenant)

	w = serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/now-payment", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"already_processed":false,"message":"ok"}`, w.Body.String())
}

func TestNew_NoRoute(t *testing.T) {
	e, _, _ := testEngine(t, config.HTTPConfig{})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")
}

func TestNew_AdminRoutesRequireAdmin(t *testing.T) {
	e, jwtSvc, orders := testEngine(t, config.HTTPConfig{})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token(t, jwtSvc, defaultTenant, "user"))
	w = serve(e, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminTenant := uuid.New()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token(t, jwtSvc, adminTenant, "admin"))
	req.Header.Set(middleware.TenantHeaderKey, uuid.NewString())
	w = serve(e, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, adminTenant, orders.tenant, "token tenant wins over the header")
}

func TestNew_RateLimitAndBodyLimit(t *testing.T) {
	e, _, _ := testEngine(t, config.HTTPConfig{
		RateLimitEnabled:  true,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		MaxBodySize:       16,
	})

	w := serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/now-payment", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	w = serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
