package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeQuantity turns form input into a usable quantity. Anything that is
// not a positive whole number becomes 1.
func NormalizeQuantity(raw string) int {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || q <= 0 {
		return 1
	}
	return q
}

// NormalizeAmount turns form input into a price or tax rate. Anything that is
// not a non-negative number becomes 0.
func NormalizeAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format renders an amount with two decimal places for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LineInput is a cart or folio row as entered, before sanitizing.
type LineInput struct {
	CatalogItemID  string
	Category       string
	Description    string
	Quantity       string
	UnitPrice      string
	TaxRatePercent string
}
