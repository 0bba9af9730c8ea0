package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/pricing"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	defaultDateFormat = "02/01/2006"
	defaultColor      = "#1F4E79"
)

type column struct {
	title string
	width float64
	align string
}

var itemColumns = []column{
	{"#", 8, "C"},
	{"Description", 72, "L"},
	{"Qty", 14, "R"},
	{"Unit price", 26, "R"},
	{"Disc %", 16, "R"},
	{"Tax %", 14, "R"},
	{"Amount", 30, "R"},
}

// PDFRenderer renders quotations as A4 PDF documents using the core Helvetica font
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

// Render lays out header, customer block, line table, totals and terms
func (r *PDFRenderer) Render(tenant *entity.Tenant, q *entity.Quotation) ([]byte, error) {
	if tenant == nil || q == nil {
		return nil, fmt.Errorf("render quotation: tenant and quotation are required")
	}
	settings := tenant.Settings
	dateFormat := settings.DateFormat
	if dateFormat == "" {
		dateFormat = defaultDateFormat
	}
	red, green, blue := parseHexColor(settings.PrimaryColor)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Quotation "+q.QuotationNumber), false)
	pdf.SetAuthor(tr(tenant.Name), false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	footer := tr(settings.FooterNote)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, footer, "", 0, "C", false, 0, "")
		pdf.SetX(15)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	// header band
	pdf.SetFillColor(red, green, blue)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(110, 14, tr(tenant.Name), "", 0, "L", true, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 14, "QUOTATION", "", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range tenantLines(tenant) {
		pdf.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// document meta on the right, customer on the left
	top := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range customerLines(q) {
		pdf.CellFormat(100, 5, tr(line), "", 1, "L", false, 0, "")
	}
	bottom := pdf.GetY()

	pdf.SetXY(125, top)
	meta := [][2]string{
		{"Number", q.QuotationNumber},
		{"Date", q.IssueDate.Format(dateFormat)},
	}
	if q.ValidUntil != nil {
		meta = append(meta, [2]string{"Valid until", q.ValidUntil.Format(dateFormat)})
	}
	meta = append(meta, [2]string{"Status", q.Status.String()})
	for _, m := range meta {
		pdf.SetX(125)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(28, 5, m[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, tr(m[1]), "", 1, "R", false, 0, "")
	}
	if pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(6)

	if q.Title != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(q.Title), "", "L", false)
		pdf.Ln(2)
	}

	// line table
	pdf.SetFillColor(red, green, blue)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for _, c := range itemColumns {
		pdf.CellFormat(c.width, 7, c.title, "", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(242, 242, 242)
	for i, item := range q.Items {
		fill := i%2 == 1
		values := []string{
			strconv.Itoa(item.Position),
			trim(item.Description, 48),
			strconv.FormatInt(item.Quantity, 10),
			money(item.UnitPrice),
			percent(item.DiscountPercent),
			percent(item.TaxPercent),
			money(item.LineTotal),
		}
		for j, c := range itemColumns {
			pdf.CellFormat(c.width, 6, tr(values[j]), "", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// totals
	taxLabel := settings.TaxLabel
	if taxLabel == "" {
		taxLabel = "Tax"
	}
	totals := [][2]string{
		{"Subtotal", money(q.Subtotal)},
	}
	if !q.DiscountTotal.IsZero() {
		totals = append(totals, [2]string{"Discount included", money(q.DiscountTotal)})
	}
	totals = append(totals, [2]string{taxLabel, money(q.TaxTotal)})
	for _, t := range totals {
		pdf.SetX(120)
		pdf.CellFormat(45, 6, tr(t[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, t[1], "", 1, "R", false, 0, "")
	}
	pdf.SetX(120)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 8, tr("Total ("+q.Currency+")"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, money(q.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	if q.Notes != nil && *q.Notes != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, tr(*q.Notes), "", "L", false)
		pdf.Ln(2)
	}
	if q.Terms != nil && *q.Terms != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Terms and conditions", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, tr(*q.Terms), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quotation %s: %w", q.QuotationNumber, err)
	}
	return buf.Bytes(), nil
}

func tenantLines(t *entity.Tenant) []string {
	var lines []string
	if t.Address != nil && *t.Address != "" {
		lines = append(lines, *t.Address)
	}
	var contact []string
	if t.Phone != nil && *t.Phone != "" {
		contact = append(contact, *t.Phone)
	}
	if t.Email != nil && *t.Email != "" {
		contact = append(contact, *t.Email)
	}
	if len(contact) > 0 {
		lines = append(lines, strings.Join(contact, " | "))
	}
	if t.TaxNumber != nil && *t.TaxNumber != "" {
		lines = append(lines, "PIN: "+*t.TaxNumber)
	}
	return lines
}

func customerLines(q *entity.Quotation) []string {
	lines := []string{q.CustomerName}
	c := q.Customer
	if c == nil {
		return lines
	}
	for _, v := range []*string{c.Address, c.Phone, c.Email, c.TaxNumber} {
		if v != nil && *v != "" {
			lines = append(lines, *v)
		}
	}
	return lines
}

// money formats an amount with two decimals and thousands separators
func money(v decimal.Decimal) string {
	s := v.StringFixed(pricing.MoneyScale)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func percent(v decimal.Decimal) string {
	if v.IsZero() {
		return "-"
	}
	return v.String()
}

func parseHexColor(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		hex = strings.TrimPrefix(defaultColor, "#")
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		v, _ = strconv.ParseUint(strings.TrimPrefix(defaultColor, "#"), 16, 32)
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
