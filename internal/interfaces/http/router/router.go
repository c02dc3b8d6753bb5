package router

import (
	"net/http"

	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/auth"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/logger"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/telemetry"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/dto"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/handler"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts route registrars under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Config carries what the engine needs beyond the handlers
type Config struct {
	Env             string
	ServiceName     string
	HTTP            config.HTTPConfig
	SwaggerEnabled  bool
	TracingEnabled  bool
	DefaultTenantID uuid.UUID
	// TenantHeader lets anonymous callers pick a tenant with X-Tenant-ID
	TenantHeader   bool
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	MeterProvider  *telemetry.MeterProvider
	Logger         *zap.Logger
}

// Handlers groups the HTTP handlers mounted by New
type Handlers struct {
	Health    *handler.HealthHandler
	Product   *handler.ProductHandler
	Order     *handler.OrderHandler
	Currency  *handler.CurrencyHandler
	Webhook   *handler.WebhookHandler
	Auth      *handler.AuthHandler
	Upload    *handler.UploadHandler
	Dashboard *handler.DashboardHandler
}

// Engine is the configured gin engine. Close stops the rate limiter
// cleanup goroutines.
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close releases background resources held by the middleware
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// New builds the engine with the global middleware stack and every route.
//
// Global order: recovery, request ID, access log, security headers, CORS,
// tracing, metrics, rate limit, body limit.
func New(cfg Config, h Handlers) *Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	e := &Engine{Engine: gin.New()}
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := e.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	e.Use(logger.Recovery(log))
	e.Use(middleware.RequestID())
	e.Use(logger.GinMiddleware(log))
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	e.Use(middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}))
	e.Use(middleware.TracingAttributeInjector(), middleware.SpanErrorMarker())
	e.Use(middleware.HTTPMetrics(cfg.MeterProvider, log))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		e.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}
	if cfg.HTTP.MaxBodySize > 0 {
		e.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if h.Health != nil {
		e.GET("/health", h.Health.Health)
	}
	if cfg.SwaggerEnabled {
		e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := NewRouter(e.Engine, WithAPIVersion("v1"))
	for _, g := range e.domainGroups(cfg, h) {
		r.Register(g)
	}
	r.Setup()

	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	return e
}

func (e *Engine) domainGroups(cfg Config, h Handlers) []*DomainGroup {
	tenant := middleware.ResolveTenant(middleware.TenantMiddlewareConfig{
		DefaultTenantID: cfg.DefaultTenantID,
		HeaderEnabled:   cfg.TenantHeader,
		Logger:          cfg.Logger,
	})
	optionalAuth := middleware.OptionalJWTAuthMiddleware(cfg.JWTService)
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		Logger:         cfg.Logger,
	})

	var groups []*DomainGroup

	// Storefront: anonymous, optionally identified
	store := NewDomainGroup("storefront", "").Use(optionalAuth, tenant)
	if h.Product != nil {
		store.GET("/products", h.Product.List)
		store.GET("/products/:slug", h.Product.GetBySlug)
	}
	if h.Order != nil {
		store.POST("/orders", h.Order.PlaceOrder)
		store.GET("/orders/:id", h.Order.Get)
	}
	if h.Currency != nil {
		store.GET("/currency/rate", h.Currency.Rate)
	}
	groups = append(groups, store)

	// Provider callbacks carry no tenant; the order identifies it
	if h.Webhook != nil {
		hooks := NewDomainGroup("webhooks", "/webhooks")
		hooks.POST("/now-payment", h.Webhook.NowPayments)
		groups = append(groups, hooks)
	}

	if h.Auth != nil {
		authGroup := NewDomainGroup("auth", "/admin/auth")
		if cfg.HTTP.AuthRateLimitEnabled {
			limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
			e.limiters = append(e.limiters, limiter)
			authGroup.Use(middleware.RateLimit(limiter))
		}
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", optionalAuth, h.Auth.Logout)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
		groups = append(groups, authGroup)
	}

	admin := NewDomainGroup("admin", "/admin").Use(requireAuth, middleware.RequireAdmin(), tenant)
	if h.Product != nil {
		admin.GET("/products", h.Product.AdminList)
		admin.POST("/products", h.Product.Create)
		admin.GET("/products/:id", h.Product.AdminGet)
		admin.PUT("/products/:id", h.Product.Update)
		admin.DELETE("/products/:id", h.Product.Delete)
	}
	if h.Order != nil {
		admin.GET("/orders", h.Order.AdminList)
		admin.GET("/orders/:id", h.Order.AdminGet)
		admin.PUT("/orders/:id", h.Order.AdminUpdate)
		admin.DELETE("/orders/:id", h.Order.AdminDelete)
	}
	if h.Upload != nil {
		admin.POST("/upload", h.Upload.Upload)
	}
	if h.Dashboard != nil {
		admin.GET("/summary", h.Dashboard.Summary)
	}
	groups = append(groups, admin)

	return groups
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for an arbitrary method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
