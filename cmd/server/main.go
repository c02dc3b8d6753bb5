package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/TreasureUzoma/idolomerch/internal/application/catalog"
	dashboardapp "github.com/TreasureUzoma/idolomerch/internal/application/dashboard"
	identityapp "github.com/TreasureUzoma/idolomerch/internal/application/identity"
	mediaapp "github.com/TreasureUzoma/idolomerch/internal/application/media"
	orderapp "github.com/TreasureUzoma/idolomerch/internal/application/order"
	paymentapp "github.com/TreasureUzoma/idolomerch/internal/application/payment"
	pricingapp "github.com/TreasureUzoma/idolomerch/internal/application/pricing"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/auth"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/cache"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/config"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/event"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/exchangerate"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/logger"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/payment"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/persistence"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/scheduler"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/storage"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/telemetry"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/handler"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/TreasureUzoma/idolomerch/docs"
)

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

//	@title			Idolomerch API
//	@version		1.0
//	@description	Storefront, checkout and admin API with crypto payments

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry first so every later component reports through it
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs pipeline", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.App.Env != "production",
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		unregister, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("database"), sqlDB)
		if err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		} else {
			defer func() { _ = unregister() }()
		}
	}

	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStores()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	shopMetrics, err := telemetry.NewShopMetrics(meterProvider.Meter("shop"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	refreshTokenRepo := persistence.NewGormRefreshTokenRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := orderapp.NewOrderAuditHandler(log)
	eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)

	// Exchange rates: cached, rate-limited upstream client
	rateProvider := exchangerate.NewCachedProvider(
		exchangerate.NewClient(cfg.ExchangeRate),
		stores.Rates,
		cfg.ExchangeRate.CacheTTL,
		log,
	)
	rateProvider.SetMetrics(shopMetrics)

	var rateWarmer *scheduler.RateWarmer
	if cfg.ExchangeRate.WarmInterval > 0 && cfg.ExchangeRate.APIKey != "" {
		warmCfg := scheduler.DefaultRateWarmerConfig()
		warmCfg.Interval = cfg.ExchangeRate.WarmInterval
		rateWarmer, err = scheduler.NewRateWarmer(warmCfg, rateProvider, log)
		if err != nil {
			log.Fatal("Failed to configure rate warmer", zap.Error(err))
		}
		if err := rateWarmer.Start(context.Background()); err != nil {
			log.Fatal("Failed to start rate warmer", zap.Error(err))
		}
	}

	gateway, err := payment.NewNowPaymentsAdapter(payment.NowPaymentsConfigFrom(cfg.Payment))
	if err != nil {
		log.Fatal("Failed to configure payment provider", zap.Error(err))
	}

	objectStorage := newObjectStorage(cfg, log)

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Redis != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Redis)
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	productService := catalogapp.NewProductService(productRepo, rateProvider, eventBus, log)
	checkoutService := orderapp.NewCheckoutService(
		orderapp.NewPriceCalculator(productRepo, rateProvider),
		orderRepo,
		gateway,
		eventBus,
		orderapp.CheckoutURLs{ServerURL: cfg.App.ServerURL, AppURL: cfg.App.AppURL},
		log,
	)
	checkoutService.SetShopMetrics(shopMetrics)
	orderService := orderapp.NewOrderService(orderRepo, eventBus, log)
	webhookService := paymentapp.NewWebhookService(paymentapp.WebhookServiceConfig{
		Verifier:       payment.NewIPNSignatureVerifier(cfg.Payment.IPNSecret),
		Orders:         orderRepo,
		Payments:       paymentRepo,
		Idempotency:    stores.Idempotency,
		EventPublisher: eventBus,
		IdempotencyTTL: cfg.Payment.IdempotencyTTL,
		Logger:         log,
	})
	webhookService.SetShopMetrics(shopMetrics)
	authService := identityapp.NewAuthService(userRepo, refreshTokenRepo, jwtService, blacklist,
		identityapp.AuthServiceConfig{
			AllowSignup:     cfg.Auth.AllowSignup,
			DefaultTenantID: cfg.Auth.DefaultTenantID,
		}, log)
	uploadService := mediaapp.NewUploadService(objectStorage, cfg.Storage.MaxUploadBytes, log)
	summaryService := dashboardapp.NewSummaryService(productRepo, orderRepo, log)
	currencyService := pricingapp.NewCurrencyService(rateProvider, log)

	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Error("Failed to create bootstrap admin", zap.Error(err))
	}

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if stores.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return stores.Redis.Ping(ctx).Err() }
	}

	engine := router.New(router.Config{
		Env:             cfg.App.Env,
		ServiceName:     cfg.Telemetry.ServiceName,
		HTTP:            cfg.HTTP,
		SwaggerEnabled:  cfg.Swagger.Enabled,
		TracingEnabled:  tracerProvider.IsEnabled(),
		DefaultTenantID: cfg.Auth.DefaultTenantID,
		TenantHeader:    true,
		JWTService:      jwtService,
		TokenBlacklist:  blacklist,
		MeterProvider:   meterProvider,
		Logger:          log,
	}, router.Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, version, checks),
		Product:   handler.NewProductHandler(productService),
		Order:     handler.NewOrderHandler(checkoutService, orderService),
		Currency:  handler.NewCurrencyHandler(currencyService),
		Webhook:   handler.NewWebhookHandler(webhookService, cfg.HTTP.WebhookMaxBodySize),
		Auth:      handler.NewAuthHandler(authService),
		Upload:    handler.NewUploadHandler(uploadService),
		Dashboard: handler.NewDashboardHandler(summaryService),
	})
	defer engine.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if rateWarmer != nil {
		if err := rateWarmer.Stop(shutdownCtx); err != nil {
			log.Warn("Rate warmer shutdown failed", zap.Error(err))
		}
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logs":   loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage when a bucket is configured and an
// in-memory store otherwise
func newObjectStorage(cfg *config.Config, log *zap.Logger) mediaapp.ObjectStorage {
	if cfg.Storage.Bucket == "" {
		log.Warn("No storage bucket configured, uploads are kept in memory")
		return storage.NewMemoryObjectStorage(cfg.Storage.PublicBaseURL)
	}
	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if cfg.Storage.CreateBucket {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
	}
	return s3Storage
}
