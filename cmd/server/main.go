package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendz_shop/internal/config"
	"trendz_shop/internal/database"
	"trendz_shop/internal/handlers"
	"trendz_shop/internal/invoice"
	"trendz_shop/internal/logger"
	"trendz_shop/internal/metrics"
	"trendz_shop/internal/middleware"
	"trendz_shop/internal/migrations"
	"trendz_shop/internal/redis"
	"trendz_shop/internal/repository"
	"trendz_shop/internal/services"
	"trendz_shop/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger, err := logger.New(cfg.Environment, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = appLogger.Sync() }()

	tracerProvider, err := tracing.Setup("trendz-shop", cfg.TraceExporter, os.Stdout)
	if err != nil {
		appLogger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			appLogger.Warn("tracer shutdown error", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shopMetrics := metrics.New(registry)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.IsProduction(), appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := migrations.RunMigrations(startupCtx, db, cfg, appLogger); err != nil {
		appLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis; the service runs without the cache when it is down.
	var cache services.OrderCache = services.NoCache{}
	redisClient, err := redis.Initialize(startupCtx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		appLogger.Warn("redis unavailable, order detail cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache = redisClient
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize services
	invoiceSettings := invoice.DefaultSettings()
	invoiceSettings.ShopName = cfg.ShopName
	invoiceSettings.SupportEmail = cfg.SupportEmail
	invoiceSettings.CurrencySymbol = cfg.CurrencySymbol
	invoiceSettings.TaxRate = cfg.TaxRate

	orderService := services.NewOrderService(repos, cache, shopMetrics, appLogger)
	invoiceService := services.NewInvoiceService(repos, invoice.NewPDFRenderer(cfg.InvoiceDir), invoiceSettings, cache, shopMetrics, appLogger)
	productService := services.NewProductService(repos.Products, appLogger)
	userService := services.NewUserService(repos.Users, appLogger)

	healthChecks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		healthChecks["redis"] = redisClient.Ping
	}

	// Setup routes
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Tracing(otel.GetTracerProvider(), otel.GetTextMapPropagator()),
		middleware.RequestLogger(appLogger),
		middleware.Metrics(shopMetrics),
		middleware.ErrorHandler(appLogger),
	)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Orders:   handlers.NewOrderHandler(orderService, cfg.OrderTimeout),
		Invoices: handlers.NewInvoiceHandler(invoiceService),
		Products: handlers.NewProductHandler(productService),
		Users:    handlers.NewUserHandler(userService),
		Health:   healthChecks,
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	go func() {
		appLogger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown error", zap.Error(err))
	} else {
		appLogger.Info("server stopped")
	}
}
