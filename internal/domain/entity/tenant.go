package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tenant represents a business that owns a catalog, customers and a quotation sequence
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	TaxNumber *string        `gorm:"size:50" json:"tax_number,omitempty"`
	Settings  TenantSettings `gorm:"type:text" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds the per-business document configuration
type TenantSettings struct {
	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Quotation defaults
	QuotationPrefix   string          `json:"quotation_prefix,omitempty"`
	DefaultTaxPercent decimal.Decimal `json:"default_tax_percent"`
	TaxLabel          string          `json:"tax_label,omitempty"`
	ValidityDays      int             `json:"validity_days,omitempty"`
	Terms             string          `json:"terms,omitempty"`
	FooterNote        string          `json:"footer_note,omitempty"`

	// Document styling
	PrimaryColor string `json:"primary_color,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	b, err := json.Marshal(ts)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:          "KES",
		Timezone:          "Africa/Nairobi",
		DateFormat:        "02/01/2006",
		QuotationPrefix:   "QT",
		DefaultTaxPercent: decimal.NewFromInt(16),
		TaxLabel:          "VAT",
		ValidityDays:      30,
		PrimaryColor:      "#1F4E79",
	}
}
