package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	intelapp "github.com/splitfin/backend/internal/application/intelligence"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/infrastructure/auth"
	"github.com/splitfin/backend/internal/infrastructure/cache"
	"github.com/splitfin/backend/internal/infrastructure/completion"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"github.com/splitfin/backend/internal/infrastructure/logger"
	"github.com/splitfin/backend/internal/infrastructure/persistence"
	"github.com/splitfin/backend/internal/infrastructure/pricesearch"
	"github.com/splitfin/backend/internal/infrastructure/storage"
	"github.com/splitfin/backend/internal/infrastructure/telemetry"
	"github.com/splitfin/backend/internal/interfaces/http/handler"
	"github.com/splitfin/backend/internal/interfaces/http/middleware"
	"github.com/splitfin/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/splitfin/backend/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Splitfin Product Intelligence API
//	@version		1.0
//	@description	Product popularity, reorder alerts and market price discovery for the wholesale catalogue.

//	@contact.name	Splitfin Engineering
//	@contact.url	https://github.com/splitfin/backend

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OTLP logs first so every later log line can be bridged
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OTLP logs", zap.Error(err))
	}
	log, err := logger.New(logCfg, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting product intelligence service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Money serializes as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if _, err := telemetry.RegisterDBPoolMetrics(meter, db.Stats); err != nil {
		log.Warn("Failed to register database pool metrics", zap.Error(err))
	}

	// Repositories
	popularityRepo := persistence.NewGormPopularityRepository(db.DB)
	reorderRepo := persistence.NewGormReorderRepository(db.DB)
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)

	policy := intelligence.BrandPolicy{
		Restrict: cfg.Intelligence.RestrictToAllowedBrands,
		Brands:   cfg.Intelligence.AllowedBrands,
	}

	// Price discovery
	priceMetrics, err := telemetry.NewPriceMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create price metrics", zap.Error(err))
	}
	quoteCache, err := cache.NewQuoteCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create quote cache", zap.Error(err))
	}
	defer func() {
		if err := quoteCache.Close(); err != nil {
			log.Error("Error closing quote cache", zap.Error(err))
		}
	}()

	chain := pricesearch.NewChain([]pricesearch.Provider{
		pricesearch.NewShoppingProvider(cfg.Pricing.Shopping, cfg.Pricing.Country),
		pricesearch.NewWebSearchProvider(cfg.Pricing.WebSearch, cfg.Pricing.ScrapeResultLimit),
		pricesearch.NewScrapeProvider(cfg.Pricing.Scrape, cfg.Pricing.ScrapeResultLimit),
	},
		pricesearch.WithTierTimeout(cfg.Pricing.TierTimeout),
		pricesearch.WithCache(quoteCache, cfg.Pricing.CacheTTL),
		pricesearch.WithMetrics(priceMetrics),
		pricesearch.WithChainLogger(log),
	)
	completionClient := completion.NewClient(cfg.Completion)
	if !completionClient.Configured() {
		log.Warn("Completion provider not configured; price checks will carry no market verdict")
	}
	analyzer := intelapp.NewMarketAnalyzer(completionClient, priceMetrics, log)

	// Application services
	popularityService := intelapp.NewPopularityService(popularityRepo, policy)
	reorderService := intelapp.NewReorderService(reorderRepo, policy)
	brandService := intelapp.NewBrandService(catalogRepo, policy)
	priceCheckService := intelapp.NewPriceCheckService(catalogRepo, chain, analyzer, policy, cfg.Pricing.MaxBatch, priceMetrics)

	healthChecks := []handler.HealthCheck{{Name: "database", Pinger: db}}
	if p, ok := quoteCache.(cache.Pinger); ok {
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Pinger: p})
	}

	// Exports stream to the caller unless object storage is configured
	var exportStore intelapp.ObjectStore
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ExportStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create export store", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Export bucket unavailable", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
		}
		exportStore = s3Store
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "storage", Pinger: s3Store})
	}
	exportService := intelapp.NewExportService(popularityService, reorderService, exportStore, log)

	// HTTP handlers
	intelligenceHandler := handler.NewIntelligenceHandler(popularityService, reorderService, brandService, priceCheckService)
	exportHandler := handler.NewExportHandler(exportService)
	healthHandler := handler.NewHealthHandler(cfg.App.Name, version, healthChecks...)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Request-scoped logger and access log
	// 4. Tracing - Server span plus request attributes
	// 5. Metrics - Request count and latency
	// 6. Security headers, CORS, body limit
	// 7. RateLimit - Per-client token bucket (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
		SkipPaths:   []string{"/health", "/health/ready"},
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go rateLimiter.Run(serverCtx)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	var routerOpts []router.RouterOption
	if cfg.Auth.Enabled() {
		routerOpts = append(routerOpts, router.WithAPIMiddleware(middleware.JWTAuth(auth.NewTokenVerifier(cfg.Auth))))
	} else {
		log.Warn("auth.jwt_secret is empty; API routes are unauthenticated")
	}

	router.RegisterSystemRoutes(engine, healthHandler, cfg.Swagger.Enabled)
	router.NewRouter(engine, routerOpts...).
		Register(router.IntelligenceRoutes(intelligenceHandler, exportHandler)).
		Setup()

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
	stopServer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Telemetry flushes last so shutdown spans and logs are exported
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logs provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
