// Package pricing derives line-item and order/invoice totals. Every function
// is pure: no I/O, no validation, no rounding.
package pricing

import (
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

type LinePrice struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalTax    decimal.Decimal `json:"total_tax"`
	Discounts   decimal.Decimal `json:"discounts"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PriceLineItem assumes quantity >= 1 and non-negative price and rate.
func PriceLineItem(quantity int, unitPrice, taxRatePercent decimal.Decimal) LinePrice {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	tax := subtotal.Mul(taxRatePercent.Shift(-2))
	return LinePrice{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// Apply recomputes the derived fields of item from its inputs.
func Apply(item *model.LineItem) {
	p := PriceLineItem(item.Quantity, item.UnitPrice, item.TaxRatePercent)
	item.Subtotal = p.Subtotal
	item.TaxAmount = p.TaxAmount
	item.Total = p.Total
}

// Summarize totals items as they are priced from their inputs, so stale
// derived fields on an item cannot leak into the summary. Pass decimal.Zero
// when the caller has no discount concept.
func Summarize(items []model.LineItem, discounts decimal.Decimal) Summary {
	subtotal, tax := decimal.Zero, decimal.Zero
	for _, it := range items {
		p := PriceLineItem(it.Quantity, it.UnitPrice, it.TaxRatePercent)
		subtotal = subtotal.Add(p.Subtotal)
		tax = tax.Add(p.TaxAmount)
	}
	return Summary{
		Subtotal:    subtotal,
		TotalTax:    tax,
		Discounts:   discounts,
		TotalAmount: subtotal.Add(tax).Sub(discounts),
	}
}

// Gross is subtotal plus tax, the ceiling a discount may reach.
func (s Summary) Gross() decimal.Decimal {
	return s.Subtotal.Add(s.TotalTax)
}
