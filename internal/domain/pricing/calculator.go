// Package pricing computes line and document totals for quotations.
//
// All arithmetic is done with shopspring/decimal. Intermediate values are never
// rounded; rounding to MoneyScale happens once, when output fields are produced.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of decimal places kept on monetary fields.
	MoneyScale int32 = 2
	// PercentScale is the number of decimal places accepted on percentages.
	PercentScale int32 = 2
)

// MaxQuantity bounds a line quantity so it always fits the stored integer column.
var MaxQuantity = decimal.NewFromInt(1_000_000_000)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive whole number no greater than 1000000000")
	ErrInvalidLineValue = errors.New("unit price must be non-negative and percentages within 0-100, with at most 2 decimal places")
	ErrEmptyQuotation   = errors.New("quotation must contain at least one line item")
)

var hundred = decimal.NewFromInt(100)

// LineItem is one priced row of a quotation.
type LineItem struct {
	CatalogItemRef  string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// LineResult holds the unrounded amounts computed for a single line.
type LineResult struct {
	RawTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// Rounded returns a copy with every amount rounded to MoneyScale.
func (r LineResult) Rounded() LineResult {
	return LineResult{
		RawTotal:       r.RawTotal.Round(MoneyScale),
		DiscountAmount: r.DiscountAmount.Round(MoneyScale),
		Subtotal:       r.Subtotal.Round(MoneyScale),
		TaxAmount:      r.TaxAmount.Round(MoneyScale),
		Total:          r.Subtotal.Round(MoneyScale).Add(r.TaxAmount.Round(MoneyScale)),
	}
}

// Totals is the document level result. Total always equals Subtotal + TaxTotal.
type Totals struct {
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	Lines         []LineResult
}

// LineError reports which line of a document failed validation.
type LineError struct {
	Index int
	Field string
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Index+1, e.Field, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ValidateLine checks a single line without computing anything.
// The returned field name identifies the offending input.
func ValidateLine(item LineItem) (string, error) {
	if item.Quantity.Sign() <= 0 || !item.Quantity.IsInteger() || item.Quantity.GreaterThan(MaxQuantity) {
		return "quantity", ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() || !WithinScale(item.UnitPrice, MoneyScale) {
		return "unit_price", ErrInvalidLineValue
	}
	if !validPercent(item.DiscountPercent) {
		return "discount_percent", ErrInvalidLineValue
	}
	if !validPercent(item.TaxPercent) {
		return "tax_percent", ErrInvalidLineValue
	}
	return "", nil
}

func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred) && WithinScale(p, PercentScale)
}

// WithinScale reports whether v has no significant digits beyond places.
// Trailing zeros such as 0.330 are accepted.
func WithinScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}

// percentOf returns amount * pct / 100. The division is an exponent shift and is exact.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}

// ComputeLine applies the discount to quantity * unit price and then taxes the
// discounted amount.
func ComputeLine(item LineItem) (LineResult, error) {
	if _, err := ValidateLine(item); err != nil {
		return LineResult{}, err
	}

	raw := item.Quantity.Mul(item.UnitPrice)
	discount := percentOf(raw, item.DiscountPercent)
	afterDiscount := raw.Sub(discount)
	tax := percentOf(afterDiscount, item.TaxPercent)

	return LineResult{
		RawTotal:       raw,
		DiscountAmount: discount,
		Subtotal:       afterDiscount,
		TaxAmount:      tax,
		Total:          afterDiscount.Add(tax),
	}, nil
}

// ComputeTotals folds every line into document totals. An empty list yields zero
// totals; use ValidateDocument to reject empty documents.
func ComputeTotals(items []LineItem) (Totals, error) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero
	lines := make([]LineResult, 0, len(items))

	for i, item := range items {
		if field, err := ValidateLine(item); err != nil {
			return Totals{}, &LineError{Index: i, Field: field, Err: err}
		}
		line, _ := ComputeLine(item)
		subtotal = subtotal.Add(line.Subtotal)
		tax = tax.Add(line.TaxAmount)
		discount = discount.Add(line.DiscountAmount)
		lines = append(lines, line)
	}

	roundedSubtotal := subtotal.Round(MoneyScale)
	roundedTax := tax.Round(MoneyScale)

	return Totals{
		Subtotal:      roundedSubtotal,
		TaxTotal:      roundedTax,
		DiscountTotal: discount.Round(MoneyScale),
		Total:         roundedSubtotal.Add(roundedTax),
		Lines:         lines,
	}, nil
}

// ValidateDocument applies the document level rules before totals are computed.
func ValidateDocument(items []LineItem) error {
	if len(items) == 0 {
		return ErrEmptyQuotation
	}
	for i, item := range items {
		if field, err := ValidateLine(item); err != nil {
			return &LineError{Index: i, Field: field, Err: err}
		}
	}
	return nil
}
