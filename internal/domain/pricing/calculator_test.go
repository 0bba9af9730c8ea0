package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty, price, discount, tax string) LineItem {
	return LineItem{
		Quantity:        d(qty),
		UnitPrice:       d(price),
		DiscountPercent: d(discount),
		TaxPercent:      d(tax),
	}
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name     string
		item     LineItem
		subtotal string
		tax      string
		discount string
	}{
		{"discount and tax", line("2", "100", "10", "16"), "180", "28.8", "20"},
		{"plain", line("1", "50", "0", "0"), "50", "0", "0"},
		{"full discount", line("3", "19.99", "100", "16"), "0", "0", "59.97"},
		{"free item", line("5", "0", "0", "16"), "0", "0", "0"},
		{"max tax", line("1", "10", "0", "100"), "10", "10", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.item)
			require.NoError(t, err)
			assert.True(t, got.Subtotal.Equal(d(tt.subtotal)), "subtotal = %s, want %s", got.Subtotal, tt.subtotal)
			assert.True(t, got.TaxAmount.Equal(d(tt.tax)), "tax = %s, want %s", got.TaxAmount, tt.tax)
			assert.True(t, got.DiscountAmount.Equal(d(tt.discount)), "discount = %s, want %s", got.DiscountAmount, tt.discount)
			assert.False(t, got.Subtotal.IsNegative())
			assert.False(t, got.TaxAmount.IsNegative())
			assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount)))
		})
	}
}

func TestComputeLine_Formula(t *testing.T) {
	for _, qty := range []int64{1, 2, 7, 1000} {
		for _, price := range []string{"0", "0.01", "33.33", "1999.95"} {
			for _, discount := range []string{"0", "12.5", "33.33", "100"} {
				for _, tax := range []string{"0", "7.5", "16", "100"} {
					item := LineItem{
						Quantity:        decimal.NewFromInt(qty),
						UnitPrice:       d(price),
						DiscountPercent: d(discount),
						TaxPercent:      d(tax),
					}
					got, err := ComputeLine(item)
					require.NoError(t, err)

					want := decimal.NewFromInt(qty).Mul(d(price)).Mul(decimal.NewFromInt(1).Sub(d(discount).Shift(-2)))
					assert.True(t, got.Subtotal.Equal(want), "subtotal %s != %s", got.Subtotal, want)
					assert.True(t, got.TaxAmount.Equal(want.Mul(d(tax)).Shift(-2)))
					assert.False(t, got.Subtotal.IsNegative())
					assert.False(t, got.TaxAmount.IsNegative())
				}
			}
		}
	}
}

func TestComputeLine_Validation(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want error
	}{
		{"zero quantity", line("0", "10", "0", "0"), ErrInvalidQuantity},
		{"negative quantity", line("-1", "10", "0", "0"), ErrInvalidQuantity},
		{"fractional quantity", line("1.5", "10", "0", "0"), ErrInvalidQuantity},
		{"negative price", line("1", "-0.01", "0", "0"), ErrInvalidLineValue},
		{"negative discount", line("1", "10", "-1", "0"), ErrInvalidLineValue},
		{"discount over 100", line("1", "10", "100.01", "0"), ErrInvalidLineValue},
		{"negative tax", line("1", "10", "0", "-5"), ErrInvalidLineValue},
		{"tax over 100", line("1", "10", "0", "101"), ErrInvalidLineValue},
		{"quantity over bound", line("1000000001", "10", "0", "0"), ErrInvalidQuantity},
		{"quantity beyond int64", line("99999999999999999999", "1", "0", "0"), ErrInvalidQuantity},
		{"price with three decimals", line("3", "0.335", "0", "0"), ErrInvalidLineValue},
		{"discount with three decimals", line("1", "10", "12.345", "0"), ErrInvalidLineValue},
		{"tax with three decimals", line("1", "10", "0", "16.005"), ErrInvalidLineValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.item)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComputeLine_AcceptsStorablePrecision(t *testing.T) {
	got, err := ComputeLine(line("1000000000", "0.330", "12.50", "16.00"))
	require.NoError(t, err)
	assert.True(t, got.RawTotal.Equal(d("330000000")), got.RawTotal.String())

	_, err = ComputeTotals([]LineItem{line("1", "1", "0", "0"), line("3", "0.335", "0", "0")})
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.Equal(t, "unit_price", lineErr.Field)
}

func TestComputeLine_WholeQuantityWithTrailingZeros(t *testing.T) {
	got, err := ComputeLine(line("2.00", "5", "0", "0"))
	require.NoError(t, err)
	assert.Equal(t, "10", got.Subtotal.String())
}

func TestComputeTotals_Example(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{
		line("2", "100", "10", "16"),
		line("1", "50", "0", "0"),
	})
	require.NoError(t, err)

	assert.Equal(t, "230", totals.Subtotal.String())
	assert.Equal(t, "28.8", totals.TaxTotal.String())
	assert.Equal(t, "20", totals.DiscountTotal.String())
	assert.Equal(t, "258.8", totals.Total.String())
	assert.Len(t, totals.Lines, 2)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals, err := ComputeTotals(nil)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxTotal.IsZero())
	assert.True(t, totals.DiscountTotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	items := []LineItem{
		line("3", "0.10", "0", "16"),
		line("7", "13.37", "12.5", "8"),
		line("1", "999.99", "33.33", "16"),
		line("11", "0.07", "5", "0"),
	}
	want, err := ComputeTotals(items)
	require.NoError(t, err)

	reversed := make([]LineItem, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}
	rotated := append(append([]LineItem{}, items[2:]...), items[:2]...)

	for _, perm := range [][]LineItem{reversed, rotated} {
		got, err := ComputeTotals(perm)
		require.NoError(t, err)
		assert.True(t, want.Subtotal.Equal(got.Subtotal))
		assert.True(t, want.TaxTotal.Equal(got.TaxTotal))
		assert.True(t, want.DiscountTotal.Equal(got.DiscountTotal))
		assert.True(t, want.Total.Equal(got.Total))
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []LineItem{line("4", "12.35", "7", "16"), line("2", "0.33", "0", "8")}

	first, err := ComputeTotals(items)
	require.NoError(t, err)
	second, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, first.Subtotal.String(), second.Subtotal.String())
	assert.Equal(t, first.Total.String(), second.Total.String())
}

func TestComputeTotals_NoDriftAcrossManyLines(t *testing.T) {
	items := make([]LineItem, 1000)
	for i := range items {
		items[i] = line("1", "0.1", "0", "16")
	}
	totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, "100", totals.Subtotal.String())
	assert.Equal(t, "16", totals.TaxTotal.String())
	assert.Equal(t, "116", totals.Total.String())
}

func TestComputeTotals_RoundsOnceAtOutput(t *testing.T) {
	// Each line has a tax of 0.004; rounding per line would give 0.
	items := make([]LineItem, 10)
	for i := range items {
		items[i] = line("1", "0.02", "0", "20")
	}
	totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, "0.2", totals.Subtotal.String())
	assert.Equal(t, "0.04", totals.TaxTotal.String())
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxTotal)))
}

func TestComputeTotals_InvalidLine(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{
		line("1", "10", "0", "0"),
		line("0", "10", "0", "0"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.Equal(t, "quantity", lineErr.Field)
	assert.Empty(t, totals.Lines)
	assert.True(t, totals.Total.IsZero())
}

func TestValidateDocument(t *testing.T) {
	assert.ErrorIs(t, ValidateDocument(nil), ErrEmptyQuotation)
	assert.ErrorIs(t, ValidateDocument([]LineItem{line("1", "1", "0", "200")}), ErrInvalidLineValue)
	assert.NoError(t, ValidateDocument([]LineItem{line("1", "1", "0", "0")}))
}

func TestLineResult_Rounded(t *testing.T) {
	// 6.660333 after discount, 1.06565328 tax
	got, err := ComputeLine(line("3", "3.33", "33.33", "16"))
	require.NoError(t, err)

	r := got.Rounded()
	assert.Equal(t, "6.66", r.Subtotal.String())
	assert.Equal(t, "1.07", r.TaxAmount.String())
	assert.Equal(t, "7.73", r.Total.String())
}
