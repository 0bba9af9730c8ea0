package routes

import (
	"net/http"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/config"
	domainRepo "github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/handler"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Tenant    *handler.TenantHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Quotation *handler.QuotationHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *zap.Logger
	Tenants         middleware.TenantResolver
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TenantRateLimiter
}

// NewRateLimiter builds the per-tenant limiter from the rate limit settings.
// Requests are allowed per Duration seconds.
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.TenantRateLimiter {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return middleware.NewTenantRateLimiter(rl)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(&deps.Cfg.RateLimit)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Registration is the only route that runs without a tenant
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		public.POST("/tenants", h.Tenant.Register)

		scoped := v1.Group("")
		scoped.Use(middleware.TenantMiddleware(deps.Tenants))
		scoped.Use(rateLimiter.Middleware())

		registerTenantRoutes(scoped, h)
		registerProductRoutes(scoped, h)
		registerCustomerRoutes(scoped, h)
		registerQuotationRoutes(scoped, h, deps, log)
	}

	return router
}

func registerTenantRoutes(scoped *gin.RouterGroup, h *Handlers) {
	tenants := scoped.Group("/tenants")
	{
		tenants.GET("/current", h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", h.Tenant.UpdateCurrentTenant)
	}
}

func registerProductRoutes(scoped *gin.RouterGroup, h *Handlers) {
	products := scoped.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerCustomerRoutes(scoped *gin.RouterGroup, h *Handlers) {
	customers := scoped.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerQuotationRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps, log *zap.Logger) {
	quotations := scoped.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		// Quotation creation uses idempotency middleware so retries do not spend a second number
		quotations.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: log,
		}), h.Quotation.Create)
		quotations.POST("/preview", h.Quotation.Preview)
		quotations.POST("/expire", h.Quotation.ExpireOverdue)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.PUT("/:id/status", h.Quotation.UpdateStatus)
		quotations.GET("/:id/pdf", h.Quotation.PDF)
		quotations.DELETE("/:id", h.Quotation.Delete)
	}
}
