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

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/application/service"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/config"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/numbering"
	domainRepo "github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/infrastructure/database"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/infrastructure/document"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/infrastructure/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/logger"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/handler"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const idempotencySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	defaults := service.QuotationDefaults{
		Prefix:       cfg.Quotation.DefaultPrefix,
		Currency:     cfg.Quotation.DefaultCurrency,
		ValidityDays: cfg.Quotation.DefaultValidityDays,
	}

	allocator := numbering.NewAllocator(quotationRepo, numbering.RetryPolicy{
		MaxAttempts: cfg.Quotation.MaxAttempts,
		MinBackoff:  cfg.Quotation.MinBackoff,
		MaxBackoff:  cfg.Quotation.MaxBackoff,
	}, zlog)

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo, defaults)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	quotationService := service.NewQuotationService(
		quotationRepo,
		productRepo,
		customerRepo,
		tenantRepo,
		allocator,
		document.NewPDFRenderer(),
		defaults,
		zlog,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Tenant:    handler.NewTenantHandler(tenantService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Quotation: handler.NewQuotationHandler(quotationService),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          zlog,
		Tenants:         tenantService,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go rateLimiter.Run(ctx.Done())
	go sweepIdempotencyKeys(ctx, idempotencyRepo, zlog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// sweepIdempotencyKeys deletes expired idempotency keys until ctx ends
func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Warn("idempotency sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("idempotency keys expired", zap.Int64("deleted", n))
			}
		}
	}
}
