package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/numbering"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/pricing"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DocumentRenderer turns a quotation into a printable document
type DocumentRenderer interface {
	Render(tenant *entity.Tenant, quotation *entity.Quotation) ([]byte, error)
}

// QuotationDefaults apply when the tenant settings leave a value empty
type QuotationDefaults struct {
	Prefix       string
	Currency     string
	ValidityDays int
}

// QuotationService handles quotation-related operations
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	tenantRepo    repository.TenantRepository
	allocator     *numbering.Allocator
	renderer      DocumentRenderer
	defaults      QuotationDefaults
	logger        *zap.Logger
	now           func() time.Time
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	tenantRepo repository.TenantRepository,
	allocator *numbering.Allocator,
	renderer DocumentRenderer,
	defaults QuotationDefaults,
	logger *zap.Logger,
) *QuotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		tenantRepo:    tenantRepo,
		allocator:     allocator,
		renderer:      renderer,
		defaults:      defaults,
		logger:        logger,
		now:           time.Now,
	}
}

// QuotationItemInput is one requested line. ProductID references a catalog
// entry whose price, tax and name are used unless overridden here.
type QuotationItemInput struct {
	ProductID       *uuid.UUID
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      *decimal.Decimal
}

// QuotationInput holds the editable fields of a quotation
type QuotationInput struct {
	CustomerID   *uuid.UUID
	CustomerName string
	Title        string
	Currency     string
	IssueDate    *time.Time
	ValidUntil   *time.Time
	Notes        *string
	Terms        *string
	Items        []QuotationItemInput
}

// QuotationPreview is a priced but unsaved quotation
type QuotationPreview struct {
	Currency      string                 `json:"currency"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	TaxTotal      decimal.Decimal        `json:"tax_total"`
	DiscountTotal decimal.Decimal        `json:"discount_total"`
	Total         decimal.Decimal        `json:"total"`
	Items         []entity.QuotationItem `json:"items"`
}

// Preview prices the given lines without persisting anything or spending a number
func (s *QuotationService) Preview(ctx context.Context, currency string, items []QuotationItemInput) (*QuotationPreview, error) {
	tenant, err := s.currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	lines, totals, err := s.price(ctx, tenant, items)
	if err != nil {
		return nil, err
	}

	return &QuotationPreview{
		Currency:      s.currency(tenant, currency),
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		DiscountTotal: totals.DiscountTotal,
		Total:         totals.Total,
		Items:         lines,
	}, nil
}

// CreateQuotation prices the quotation and stores it under the next free number
func (s *QuotationService) CreateQuotation(ctx context.Context, input *QuotationInput) (*entity.Quotation, error) {
	tenant, err := s.currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	quotation := &entity.Quotation{
		TenantID: tenant.ID,
		Status:   enum.QuotationStatusDraft,
	}
	if err := s.apply(ctx, tenant, quotation, input); err != nil {
		return nil, err
	}

	number, err := s.allocator.Allocate(ctx, tenant.ID, s.prefix(tenant), func(ctx context.Context, n numbering.Number) error {
		quotation.QuotationNumber = n.String()
		quotation.Sequence = n.Sequence
		err := s.quotationRepo.Create(ctx, quotation)
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: %v", numbering.ErrNumberTaken, err)
		}
		return err
	})
	if err != nil {
		return nil, toAppError(err)
	}

	s.logger.Info("quotation created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("quotation_number", number.String()),
		zap.String("total", quotation.Total.StringFixed(pricing.MoneyScale)),
	)

	return s.getWithItems(ctx, tenant.ID, quotation.ID)
}

// GetQuotation retrieves a quotation with its items
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	return s.getWithItems(ctx, tenantID, id)
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}

// ListQuotations lists the tenant's quotations with filtering
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	params := &repository.QuotationFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}

	quotations, total, err := s.quotationRepo.List(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// UpdateQuotation replaces the editable fields and items and recomputes totals.
// The quotation number never changes.
func (s *QuotationService) UpdateQuotation(ctx context.Context, id uuid.UUID, input *QuotationInput) (*entity.Quotation, error) {
	tenant, err := s.currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	quotation, err := s.getWithItems(ctx, tenant.ID, id)
	if err != nil {
		return nil, err
	}
	if !quotation.Status.IsOpen() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Quotation is %s and can no longer be edited", quotation.Status))
	}

	if err := s.apply(ctx, tenant, quotation, input); err != nil {
		return nil, err
	}
	quotation.UpdatedAt = s.now()

	if err := s.quotationRepo.ReplaceItems(ctx, quotation); err != nil {
		return nil, toAppError(err)
	}

	return s.getWithItems(ctx, tenant.ID, id)
}

// UpdateQuotationStatus moves a quotation through its lifecycle.
// Setting the current status again is a no-op.
func (s *QuotationService) UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) (*entity.Quotation, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fieldError("status", "unknown quotation status")
	}

	quotation, err := s.getWithItems(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status == status {
		return quotation, nil
	}
	if !quotation.Status.CanTransitionTo(status) {
		return nil, toAppError(fmt.Errorf("%w: cannot move quotation from %s to %s", ErrInvalidTransition, quotation.Status, status))
	}
	if status != enum.QuotationStatusExpired && status != enum.QuotationStatusRejected && quotation.IsOverdue(s.now()) {
		return nil, toAppError(fmt.Errorf("%w: quotation validity ended on %s", ErrInvalidTransition, quotation.ValidUntil.Format("2006-01-02")))
	}

	if err := s.quotationRepo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	quotation.Status = status
	return quotation, nil
}

// DeleteQuotation soft-deletes a quotation. Its number is not reused.
func (s *QuotationService) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return err
	}

	quotation, err := s.quotationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}
	return s.quotationRepo.Delete(ctx, tenantID, id)
}

// ExpireOverdue marks every open quotation past its validity date as expired
func (s *QuotationService) ExpireOverdue(ctx context.Context) (int64, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return 0, err
	}

	n, err := s.quotationRepo.ExpireOverdue(ctx, tenantID, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired overdue quotations",
			zap.String("tenant_id", tenantID.String()),
			zap.Int64("count", n),
		)
	}
	return n, nil
}

// RenderPDF renders the quotation as a PDF document
func (s *QuotationService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, *entity.Quotation, error) {
	tenant, err := s.currentTenant(ctx)
	if err != nil {
		return nil, nil, err
	}

	quotation, err := s.getWithItems(ctx, tenant.ID, id)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.renderer.Render(tenant, quotation)
	if err != nil {
		return nil, nil, fmt.Errorf("render quotation %s: %w", quotation.QuotationNumber, err)
	}
	return doc, quotation, nil
}

func (s *QuotationService) getWithItems(ctx context.Context, tenantID, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return quotation, nil
}

func (s *QuotationService) currentTenant(ctx context.Context) (*entity.Tenant, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// apply validates input and copies it, priced, onto quotation
func (s *QuotationService) apply(ctx context.Context, tenant *entity.Tenant, quotation *entity.Quotation, input *QuotationInput) error {
	customerName := strings.TrimSpace(input.CustomerName)
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, tenant.ID, *input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fieldError("customer_id", "customer not found")
		}
		if customerName == "" {
			customerName = customer.Name
		}
	}
	if customerName == "" {
		return fieldError("customer_name", "customer_id or customer_name is required")
	}

	issueDate := dateOnly(s.now())
	if input.IssueDate != nil {
		issueDate = dateOnly(*input.IssueDate)
	}
	validUntil := issueDate.AddDate(0, 0, s.validityDays(tenant))
	if input.ValidUntil != nil {
		validUntil = dateOnly(*input.ValidUntil)
	}
	if validUntil.Before(issueDate) {
		return fieldError("valid_until", "must not be before issue_date")
	}

	currency := s.currency(tenant, input.Currency)
	if len(currency) != 3 {
		return fieldError("currency", "must be a three letter ISO 4217 code")
	}

	lines, totals, err := s.price(ctx, tenant, input.Items)
	if err != nil {
		return err
	}

	terms := input.Terms
	if terms == nil && tenant.Settings.Terms != "" {
		t := tenant.Settings.Terms
		terms = &t
	}

	quotation.CustomerID = input.CustomerID
	quotation.CustomerName = customerName
	quotation.Title = strings.TrimSpace(input.Title)
	quotation.Currency = currency
	quotation.IssueDate = issueDate
	quotation.ValidUntil = &validUntil
	quotation.Notes = input.Notes
	quotation.Terms = terms
	quotation.Subtotal = totals.Subtotal
	quotation.TaxTotal = totals.TaxTotal
	quotation.DiscountTotal = totals.DiscountTotal
	quotation.Total = totals.Total
	quotation.Items = lines
	return nil
}

// price resolves catalog references and runs the calculator over every line.
// Nothing is returned unless every line is valid.
func (s *QuotationService) price(ctx context.Context, tenant *entity.Tenant, items []QuotationItemInput) ([]entity.QuotationItem, pricing.Totals, error) {
	var productIDs []uuid.UUID
	for _, item := range items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}
	products, err := s.productRepo.GetByIDs(ctx, tenant.ID, productIDs)
	if err != nil {
		return nil, pricing.Totals{}, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	lineItems := make([]pricing.LineItem, len(items))
	lines := make([]entity.QuotationItem, len(items))
	for i, item := range items {
		line := entity.QuotationItem{
			ProductID:   item.ProductID,
			Description: strings.TrimSpace(item.Description),
		}
		taxPercent := tenant.Settings.DefaultTaxPercent
		var unitPrice *decimal.Decimal

		if item.ProductID != nil {
			product, ok := productMap[*item.ProductID]
			if !ok {
				return nil, pricing.Totals{}, fieldError(fmt.Sprintf("items[%d].product_id", i), "product not found")
			}
			if !product.IsActive {
				return nil, pricing.Totals{}, fieldError(fmt.Sprintf("items[%d].product_id", i), "product is inactive")
			}
			line.ProductCode = product.Code
			if line.Description == "" {
				line.Description = product.Name
			}
			price := product.UnitPrice
			unitPrice = &price
			taxPercent = product.TaxPercent
		}
		if item.UnitPrice != nil {
			unitPrice = item.UnitPrice
		}
		if item.TaxPercent != nil {
			taxPercent = *item.TaxPercent
		}
		if unitPrice == nil {
			return nil, pricing.Totals{}, fieldError(fmt.Sprintf("items[%d].unit_price", i), "unit_price is required for lines without a product")
		}
		if line.Description == "" {
			return nil, pricing.Totals{}, fieldError(fmt.Sprintf("items[%d].description", i), "description is required for lines without a product")
		}

		ref := line.ProductCode
		if ref == "" && item.ProductID != nil {
			ref = item.ProductID.String()
		}
		lineItems[i] = pricing.LineItem{
			CatalogItemRef:  ref,
			Quantity:        item.Quantity,
			UnitPrice:       *unitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      taxPercent,
		}
		lines[i] = line
	}

	if err := pricing.ValidateDocument(lineItems); err != nil {
		return nil, pricing.Totals{}, toAppError(err)
	}
	totals, err := pricing.ComputeTotals(lineItems)
	if err != nil {
		return nil, pricing.Totals{}, toAppError(err)
	}

	for i := range lines {
		result := totals.Lines[i].Rounded()
		lines[i].Position = i + 1
		lines[i].Quantity = lineItems[i].Quantity.IntPart()
		lines[i].UnitPrice = lineItems[i].UnitPrice
		lines[i].DiscountPercent = lineItems[i].DiscountPercent
		lines[i].TaxPercent = lineItems[i].TaxPercent
		lines[i].DiscountAmount = result.DiscountAmount
		lines[i].TaxAmount = result.TaxAmount
		lines[i].LineSubtotal = result.Subtotal
		lines[i].LineTotal = result.Total
	}
	return lines, totals, nil
}

func (s *QuotationService) prefix(tenant *entity.Tenant) string {
	if tenant.Settings.QuotationPrefix != "" {
		return tenant.Settings.QuotationPrefix
	}
	return s.defaults.Prefix
}

func (s *QuotationService) currency(tenant *entity.Tenant, requested string) string {
	switch {
	case strings.TrimSpace(requested) != "":
		return strings.ToUpper(strings.TrimSpace(requested))
	case tenant.Settings.Currency != "":
		return tenant.Settings.Currency
	default:
		return s.defaults.Currency
	}
}

func (s *QuotationService) validityDays(tenant *entity.Tenant) int {
	if tenant.Settings.ValidityDays > 0 {
		return tenant.Settings.ValidityDays
	}
	if s.defaults.ValidityDays > 0 {
		return s.defaults.ValidityDays
	}
	return 30
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
