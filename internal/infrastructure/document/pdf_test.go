package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	phone := "+254 700 000000"
	notes := "Delivery within 7 days"
	valid := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	settings := entity.DefaultTenantSettings()
	settings.FooterNote = "Thank you for your business"

	tenant := &entity.Tenant{Name: "Acme Traders", Phone: &phone, Settings: settings}
	q := &entity.Quotation{
		QuotationNumber: "QT-0001",
		CustomerName:    "Globex Café",
		Currency:        "KES",
		IssueDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:      &valid,
		Status:          enum.QuotationStatusDraft,
		Subtotal:        decimal.RequireFromString("230"),
		TaxTotal:        decimal.RequireFromString("28.8"),
		DiscountTotal:   decimal.RequireFromString("20"),
		Total:           decimal.RequireFromString("258.8"),
		Notes:           &notes,
		Items: []entity.QuotationItem{
			{Position: 1, Description: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(100),
				DiscountPercent: decimal.NewFromInt(10), TaxPercent: decimal.NewFromInt(16), LineTotal: decimal.RequireFromString("208.8")},
			{Position: 2, Description: "Delivery", Quantity: 1, UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(50)},
		},
	}

	doc, err := NewPDFRenderer().Render(tenant, q)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Greater(t, len(doc), 500)
}

func TestRenderRequiresInput(t *testing.T) {
	_, err := NewPDFRenderer().Render(nil, &entity.Quotation{})
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"258.8":      "258.80",
		"1234567.5":  "1,234,567.50",
		"-1000":      "-1,000.00",
		"999.995":    "1,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, money(decimal.RequireFromString(in)), in)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b := parseHexColor("#FF8000")
	assert.Equal(t, []int{255, 128, 0}, []int{r, g, b})

	r, g, b = parseHexColor("nope")
	assert.Equal(t, []int{0x1F, 0x4E, 0x79}, []int{r, g, b})
}
