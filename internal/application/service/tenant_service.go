package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/numbering"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/pricing"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

const maxSlugAttempts = 20

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TenantService handles tenant-related operations
type TenantService struct {
	tenantRepo repository.TenantRepository
	defaults   QuotationDefaults
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, defaults QuotationDefaults) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, defaults: defaults}
}

// RegisterTenantInput represents input for registering a business
type RegisterTenantInput struct {
	Name      string
	Slug      string
	Email     *string
	Phone     *string
	Address   *string
	TaxNumber *string
}

// RegisterTenant creates a business with default document settings.
// Without an explicit slug one is derived from the name and suffixed until free.
func (s *TenantService) RegisterTenant(ctx context.Context, input *RegisterTenantInput) (*entity.Tenant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", "name is required")
	}

	tenantSlug, err := s.resolveSlug(ctx, name, input.Slug)
	if err != nil {
		return nil, err
	}

	settings := entity.DefaultTenantSettings()
	if s.defaults.Prefix != "" {
		settings.QuotationPrefix = numbering.NormalizePrefix(s.defaults.Prefix)
	}
	if s.defaults.Currency != "" {
		settings.Currency = s.defaults.Currency
	}
	if s.defaults.ValidityDays > 0 {
		settings.ValidityDays = s.defaults.ValidityDays
	}

	tenant := &entity.Tenant{
		Name:      name,
		Slug:      tenantSlug,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		TaxNumber: input.TaxNumber,
		Settings:  settings,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Tenant slug already exists")
		}
		return nil, err
	}

	return tenant, nil
}

func (s *TenantService) resolveSlug(ctx context.Context, name, requested string) (string, error) {
	if requested != "" {
		candidate := slug.Make(requested)
		if candidate != requested {
			return "", fieldError("slug", "slug may only contain lowercase letters, digits and dashes")
		}
		exists, err := s.tenantRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if exists {
			return "", apperror.NewConflictError("Tenant slug already exists")
		}
		return candidate, nil
	}

	base := slug.Make(name)
	if base == "" {
		return "", fieldError("name", "name must contain letters or digits")
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := s.tenantRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperror.NewConflictError("Could not derive a free slug, please choose one")
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// GetCurrentTenant returns the tenant resolved for this request
func (s *TenantService) GetCurrentTenant(ctx context.Context) (*entity.Tenant, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetTenant(ctx, tenantID)
}

// ResolveTenant finds a tenant by ID or slug, used when routing requests
func (s *TenantService) ResolveTenant(ctx context.Context, ref string) (*entity.Tenant, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.tenantRepo.GetByID(ctx, id)
	}
	return s.tenantRepo.GetBySlug(ctx, ref)
}

// UpdateTenantInput represents input for updating the current tenant.
// Nil fields are left unchanged.
type UpdateTenantInput struct {
	Name              *string
	Email             *string
	Phone             *string
	Address           *string
	TaxNumber         *string
	Currency          *string
	QuotationPrefix   *string
	DefaultTaxPercent *decimal.Decimal
	TaxLabel          *string
	ValidityDays      *int
	Terms             *string
	FooterNote        *string
	PrimaryColor      *string
	LogoURL           *string
}

// UpdateCurrentTenant updates profile and document settings of the current tenant.
// Changing the prefix affects new quotations only; the sequence carries on.
func (s *TenantService) UpdateCurrentTenant(ctx context.Context, input *UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.GetCurrentTenant(ctx)
	if err != nil {
		return nil, err
	}

	var errs []apperror.FieldError
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: "name", Message: "name must not be empty"})
		}
		tenant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		tenant.Email = input.Email
	}
	if input.Phone != nil {
		tenant.Phone = input.Phone
	}
	if input.Address != nil {
		tenant.Address = input.Address
	}
	if input.TaxNumber != nil {
		tenant.TaxNumber = input.TaxNumber
	}

	settings := &tenant.Settings
	if input.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if len(c) != 3 {
			errs = append(errs, apperror.FieldError{Field: "currency", Message: "must be a three letter ISO 4217 code"})
		}
		settings.Currency = c
	}
	if input.QuotationPrefix != nil {
		settings.QuotationPrefix = numbering.NormalizePrefix(*input.QuotationPrefix)
	}
	if input.DefaultTaxPercent != nil {
		p := *input.DefaultTaxPercent
		if p.IsNegative() || p.GreaterThan(hundred) || !pricing.WithinScale(p, pricing.PercentScale) {
			errs = append(errs, apperror.FieldError{Field: "default_tax_percent", Message: "must be between 0 and 100 with at most 2 decimal places"})
		}
		settings.DefaultTaxPercent = p
	}
	if input.TaxLabel != nil {
		settings.TaxLabel = *input.TaxLabel
	}
	if input.ValidityDays != nil {
		if *input.ValidityDays < 1 {
			errs = append(errs, apperror.FieldError{Field: "validity_days", Message: "must be at least 1"})
		}
		settings.ValidityDays = *input.ValidityDays
	}
	if input.Terms != nil {
		settings.Terms = *input.Terms
	}
	if input.FooterNote != nil {
		settings.FooterNote = *input.FooterNote
	}
	if input.PrimaryColor != nil {
		if !hexColor.MatchString(*input.PrimaryColor) {
			errs = append(errs, apperror.FieldError{Field: "primary_color", Message: "must be a hex colour like #1F4E79"})
		}
		settings.PrimaryColor = *input.PrimaryColor
	}
	if input.LogoURL != nil {
		settings.LogoURL = *input.LogoURL
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	return tenant, nil
}
