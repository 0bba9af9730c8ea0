package entity

import (
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quotation represents a price quotation issued by a tenant to a customer.
// QuotationNumber is unique per tenant and never changes once assigned.
type Quotation struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_quotations_tenant_number;uniqueIndex:idx_quotations_tenant_sequence" json:"tenant_id"`
	CustomerID      *uuid.UUID           `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	QuotationNumber string               `gorm:"size:50;not null;uniqueIndex:idx_quotations_tenant_number" json:"quotation_number"`
	Sequence        int                  `gorm:"not null;uniqueIndex:idx_quotations_tenant_sequence" json:"-"`
	Title           string               `gorm:"size:255" json:"title,omitempty"`
	CustomerName    string               `gorm:"size:255" json:"customer_name"`
	Currency        string               `gorm:"size:3;not null" json:"currency"`
	IssueDate       time.Time            `gorm:"type:date;not null" json:"issue_date"`
	ValidUntil      *time.Time           `gorm:"type:date" json:"valid_until,omitempty"`
	Status          enum.QuotationStatus `gorm:"default:0;index" json:"status"`
	Subtotal        decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	TaxTotal        decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"tax_total"`
	DiscountTotal   decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"discount_total"`
	Total           decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"total"`
	Notes           *string              `gorm:"type:text" json:"notes,omitempty"`
	Terms           *string              `gorm:"type:text" json:"terms,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant          `gorm:"foreignKey:TenantID" json:"-"`
	Customer *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// IsOverdue reports whether the validity date has passed at now
func (q *Quotation) IsOverdue(now time.Time) bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(now)
}

// QuotationItem represents a line item in a quotation
type QuotationItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Position        int             `gorm:"not null" json:"position"`
	ProductCode     string          `gorm:"size:100" json:"product_code,omitempty"`
	Description     string          `gorm:"size:500;not null" json:"description"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	LineSubtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_subtotal"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new quotation item
func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationItem model
func (QuotationItem) TableName() string {
	return "quotation_items"
}
