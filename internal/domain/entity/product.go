package entity

import (
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a priced catalog entry, either a product or a service
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_code" json:"tenant_id"`
	Code        string          `gorm:"size:100;not null;uniqueIndex:idx_products_tenant_code" json:"code"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Type        enum.ItemType   `gorm:"default:0" json:"type"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Unit        string          `gorm:"size:50" json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"unit_price"`
	TaxPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percent"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
