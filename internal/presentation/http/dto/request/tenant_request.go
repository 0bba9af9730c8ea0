package request

import "github.com/shopspring/decimal"

// RegisterTenantRequest represents a business registration request
type RegisterTenantRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	Slug      string  `json:"slug" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	TaxNumber *string `json:"tax_number"`
}

// UpdateTenantRequest represents an update of the current tenant profile and settings
type UpdateTenantRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Email             *string          `json:"email" binding:"omitempty,email"`
	Phone             *string          `json:"phone"`
	Address           *string          `json:"address"`
	TaxNumber         *string          `json:"tax_number"`
	Currency          *string          `json:"currency"`
	QuotationPrefix   *string          `json:"quotation_prefix"`
	DefaultTaxPercent *decimal.Decimal `json:"default_tax_percent"`
	TaxLabel          *string          `json:"tax_label"`
	ValidityDays      *int             `json:"validity_days"`
	Terms             *string          `json:"terms"`
	FooterNote        *string          `json:"footer_note"`
	PrimaryColor      *string          `json:"primary_color"`
	LogoURL           *string          `json:"logo_url"`
}
