package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationItemRequest represents a line item in a quotation request.
// Nil overrides fall back to the referenced product or tenant defaults.
type QuotationItemRequest struct {
	ProductID       *uuid.UUID       `json:"product_id"`
	Description     string           `json:"description" binding:"omitempty,max=500"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// QuotationRequest represents the create/update quotation request body
type QuotationRequest struct {
	CustomerID   *uuid.UUID             `json:"customer_id"`
	CustomerName string                 `json:"customer_name" binding:"omitempty,max=255"`
	Title        string                 `json:"title" binding:"omitempty,max=255"`
	Currency     string                 `json:"currency" binding:"omitempty,len=3"`
	IssueDate    string                 `json:"issue_date"`
	ValidUntil   string                 `json:"valid_until"`
	Notes        *string                `json:"notes"`
	Terms        *string                `json:"terms"`
	Items        []QuotationItemRequest `json:"items" binding:"dive"`
}

// PreviewQuotationRequest prices lines without saving them
type PreviewQuotationRequest struct {
	Currency string                 `json:"currency" binding:"omitempty,len=3"`
	Items    []QuotationItemRequest `json:"items" binding:"dive"`
}

// UpdateQuotationStatusRequest represents a status change
type UpdateQuotationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// QuotationFilterRequest represents quotation list query parameters
type QuotationFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       string `form:"page"`
	PerPage    string `form:"per_page"`
}
