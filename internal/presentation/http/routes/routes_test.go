package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/application/service"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/config"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/numbering"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/infrastructure/document"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/infrastructure/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/handler"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type quotationBody struct {
	ID              string          `json:"id"`
	QuotationNumber string          `json:"quotation_number"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxTotal        decimal.Decimal `json:"tax_total"`
	DiscountTotal   decimal.Decimal `json:"discount_total"`
	Total           decimal.Decimal `json:"total"`
}

const workedExample = `{
	"customer_name": "Globex",
	"items": [
		{"description": "Widget", "quantity": 2, "unit_price": "100", "discount_percent": 10, "tax_percent": 16},
		{"description": "Delivery", "quantity": 1, "unit_price": "50", "tax_percent": 0}
	]
}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.Tenant{}, &entity.Product{}, &entity.Customer{},
		&entity.Quotation{}, &entity.QuotationItem{}, &entity.IdempotencyKey{}))

	defaults := service.QuotationDefaults{Prefix: "QT", Currency: "KES", ValidityDays: 30}
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	allocator := numbering.NewAllocator(quotationRepo, numbering.DefaultRetryPolicy(), zap.NewNop())

	tenantService := service.NewTenantService(tenantRepo, defaults)
	quotationService := service.NewQuotationService(quotationRepo, productRepo, customerRepo, tenantRepo,
		allocator, document.NewPDFRenderer(), defaults, zap.NewNop())

	cfg := &config.Config{
		App:       config.AppConfig{Name: "quotation-api"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	return Setup(&Handlers{
		Tenant:    handler.NewTenantHandler(tenantService),
		Product:   handler.NewProductHandler(service.NewProductService(productRepo)),
		Customer:  handler.NewCustomerHandler(service.NewCustomerService(customerRepo)),
		Quotation: handler.NewQuotationHandler(quotationService),
	}, &Deps{
		Cfg:             cfg,
		Logger:          zap.NewNop(),
		Tenants:         tenantService,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
	})
}

func do(t *testing.T, router *gin.Engine, method, path, tenant, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set(middleware.TenantHeader, tenant)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func registerTenant(t *testing.T, router *gin.Engine, name string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/tenants", "", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tenant struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &tenant))
	return tenant.Slug
}

func createQuotation(t *testing.T, router *gin.Engine, tenant string, headers ...string) (*httptest.ResponseRecorder, quotationBody) {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/quotations", tenant, workedExample, headers...)
	var q quotationBody
	if w.Code == http.StatusCreated {
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &q))
	}
	return w, q
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quotation-api")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTenantResolution(t *testing.T) {
	router := newTestRouter(t)
	slug := registerTenant(t, router, "Acme Traders")
	assert.Equal(t, "acme-traders", slug)

	w := do(t, router, http.MethodGet, "/api/v1/quotations", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/quotations", "nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/tenants/current", slug, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"acme-traders"`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/current", nil)
	req.Host = slug + ".quotes.example.com"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateQuotationOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	slug := registerTenant(t, router, "Acme Traders")

	w, q := createQuotation(t, router, slug)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "QT-0001", q.QuotationNumber)
	assert.Equal(t, "draft", q.Status)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(230)), q.Subtotal.String())
	assert.True(t, q.TaxTotal.Equal(decimal.RequireFromString("28.8")), q.TaxTotal.String())
	assert.True(t, q.DiscountTotal.Equal(decimal.NewFromInt(20)), q.DiscountTotal.String())
	assert.True(t, q.Total.Equal(decimal.RequireFromString("258.8")), q.Total.String())

	_, second := createQuotation(t, router, slug)
	assert.Equal(t, "QT-0002", second.QuotationNumber)

	other := registerTenant(t, router, "Globex Supplies")
	_, first := createQuotation(t, router, other)
	assert.Equal(t, "QT-0001", first.QuotationNumber, "sequences are independent per tenant")

	w = do(t, router, http.MethodGet, "/api/v1/quotations/"+q.ID, other, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateQuotationValidationErrors(t *testing.T) {
	router := newTestRouter(t)
	slug := registerTenant(t, router, "Acme Traders")

	body := strings.Replace(workedExample, `"quantity": 1`, `"quantity": 0`, 1)
	w := do(t, router, http.MethodPost, "/api/v1/quotations", slug, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	env := decode(t, w)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "items[1].quantity", env.Errors[0].Field)

	w = do(t, router, http.MethodPost, "/api/v1/quotations", slug, `{"customer_name":"Globex","items":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/quotations", slug, `{"customer_name":"Globex","issue_date":"01/03/2026","items":[]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "issue_date", decode(t, w).Errors[0].Field)

	w = do(t, router, http.MethodPost, "/api/v1/quotations", slug, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, q := createQuotation(t, router, slug)
	assert.Equal(t, "QT-0001", q.QuotationNumber, "rejected requests do not spend numbers")
}

func TestCreateQuotationIdempotencyReplay(t *testing.T) {
	router := newTestRouter(t)
	slug := registerTenant(t, router, "Acme Traders")

	w, first := createQuotation(t, router, slug, middleware.IdempotencyKeyHeader, "retry-1")
	require.Equal(t, http.StatusCreated, w.Code)

	w, replay := createQuotation(t, router, slug, middleware.IdempotencyKeyHeader, "retry-1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.QuotationNumber, replay.QuotationNumber)
	assert.Equal(t, first.ID, replay.ID)

	_, next := createQuotation(t, router, slug)
	assert.Equal(t, "QT-0002", next.QuotationNumber)
}

func TestQuotationLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	slug := registerTenant(t, router, "Acme Traders")
	_, q := createQuotation(t, router, slug)

	w := do(t, router, http.MethodPost, "/api/v1/quotations/preview", slug, workedExample)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview quotationBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &preview))
	assert.True(t, preview.Total.Equal(decimal.RequireFromString("258.8")))

	w = do(t, router, http.MethodPut, "/api/v1/quotations/"+q.ID+"/status", slug, `{"status":"sent"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"sent"`)

	w = do(t, router, http.MethodPut, "/api/v1/quotations/"+q.ID+"/status", slug, `{"status":"bogus"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodPut, "/api/v1/quotations/"+q.ID+"/status", slug, `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPut, "/api/v1/quotations/"+q.ID, slug, workedExample)
	assert.Equal(t, http.StatusConflict, w.Code, "accepted quotations are locked")

	w = do(t, router, http.MethodGet, "/api/v1/quotations/"+q.ID+"/pdf", slug, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "QT-0001.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = do(t, router, http.MethodGet, "/api/v1/quotations?status=accepted", slug, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "QT-0001")

	w = do(t, router, http.MethodGet, "/api/v1/quotations?status=unknown", slug, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/quotations/not-a-uuid", slug, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodDelete, "/api/v1/quotations/"+q.ID, slug, "")
	require.Equal(t, http.StatusOK, w.Code)

	_, next := createQuotation(t, router, slug)
	assert.Equal(t, "QT-0002", next.QuotationNumber, "deleted numbers stay reserved")
}

func TestCatalogOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	slug := registerTenant(t, router, "Acme Traders")

	w := do(t, router, http.MethodPost, "/api/v1/products", slug,
		`{"code":"WID-1","name":"Widget","type":"product","unit":"pc","unit_price":"100","tax_percent":"16"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &product))

	w = do(t, router, http.MethodPost, "/api/v1/products", slug,
		`{"code":"WID-1","name":"Widget again","unit_price":"1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/products?type=product", slug, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WID-1")

	w = do(t, router, http.MethodPost, "/api/v1/customers", slug, `{"name":"Globex","email":"buyer@globex.test"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var customer struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &customer))

	body := `{"customer_id":"` + customer.ID + `","items":[{"product_id":"` + product.ID + `","quantity":3}]}`
	w = do(t, router, http.MethodPost, "/api/v1/quotations", slug, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var q quotationBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &q))
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(300)), q.Subtotal.String())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(348)), q.Total.String())
}

func TestRateLimiterRejectsBursts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(t, router, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 1, rl.ActiveKeys())
}
