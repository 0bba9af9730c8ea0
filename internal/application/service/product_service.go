package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/pricing"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents the create/update product input
type ProductInput struct {
	Code        string
	Name        string
	Type        enum.ItemType
	Description *string
	Unit        string
	UnitPrice   decimal.Decimal
	TaxPercent  decimal.Decimal
	IsActive    *bool
}

func (in *ProductInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Code) == "" {
		errs = append(errs, apperror.FieldError{Field: "code", Message: "code is required"})
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if !in.Type.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "type", Message: "type must be product or service"})
	}
	if in.UnitPrice.IsNegative() || !pricing.WithinScale(in.UnitPrice, pricing.MoneyScale) {
		errs = append(errs, apperror.FieldError{Field: "unit_price", Message: "unit_price must not be negative and has at most 2 decimal places"})
	}
	if in.TaxPercent.IsNegative() || in.TaxPercent.GreaterThan(hundred) || !pricing.WithinScale(in.TaxPercent, pricing.PercentScale) {
		errs = append(errs, apperror.FieldError{Field: "tax_percent", Message: "tax_percent must be between 0 and 100 with at most 2 decimal places"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// CreateProduct adds a catalog entry for the current tenant
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &entity.Product{TenantID: tenantID, IsActive: true}
	input.copyTo(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProductsInput represents the input for listing products
type ListProductsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.ItemType
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}

// ListProducts lists the tenant's catalog
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, tenantID, &repository.ProductFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Type:       input.Type,
		ActiveOnly: input.ActiveOnly,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct updates a catalog entry. Existing quotations keep the prices they were issued with.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	input.copyTo(product)

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a catalog entry
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.TenantID, product.ID)
}

func (in *ProductInput) copyTo(p *entity.Product) {
	p.Code = strings.TrimSpace(in.Code)
	p.Name = strings.TrimSpace(in.Name)
	p.Type = in.Type
	p.Description = in.Description
	p.Unit = in.Unit
	p.UnitPrice = in.UnitPrice
	p.TaxPercent = in.TaxPercent
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
