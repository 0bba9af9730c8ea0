package request

import (
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ProductRequest represents a product create/update request
type ProductRequest struct {
	Code        string          `json:"code" binding:"required,max=100"`
	Name        string          `json:"name" binding:"required,min=2,max=255"`
	Type        enum.ItemType   `json:"type"`
	Description *string         `json:"description"`
	Unit        string          `json:"unit" binding:"omitempty,max=50"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	IsActive    *bool           `json:"is_active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	Type       string `form:"type"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       string `form:"page"`
	PerPage    string `form:"per_page"`
}
