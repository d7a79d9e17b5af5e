package handler

import (
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
)

// LinesFromPB passes entered rows through untouched. Sanitizing happens in
// catalog.ResolveLines.
func LinesFromPB(in []billingv1.LineInput) []pricing.LineInput {
	out := make([]pricing.LineInput, len(in))
	for i, l := range in {
		out[i] = pricing.LineInput{
			CatalogItemID:  l.CatalogItemID,
			Category:       l.Category,
			Description:    l.Description,
			Quantity:       string(l.Quantity),
			UnitPrice:      string(l.UnitPrice),
			TaxRatePercent: string(l.TaxRatePercent),
		}
	}
	return out
}

func MapLineItemsToPB(items []model.LineItem) []*billingv1.LineItem {
	out := make([]*billingv1.LineItem, len(items))
	for i, it := range items {
		li := &billingv1.LineItem{
			ID:             it.ID,
			Category:       string(it.Category),
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TaxRatePercent: it.TaxRatePercent,
			Subtotal:       it.Subtotal,
			TaxAmount:      it.TaxAmount,
			Total:          it.Total,
		}
		if it.CatalogItemID != nil {
			li.CatalogItemID = *it.CatalogItemID
		}
		if it.SourceOrderID != nil {
			li.SourceOrderID = *it.SourceOrderID
		}
		out[i] = li
	}
	return out
}

func MapSummaryToPB(s pricing.Summary) billingv1.Summary {
	return billingv1.Summary{
		Subtotal:    s.Subtotal,
		TotalTax:    s.TotalTax,
		Discounts:   s.Discounts,
		TotalAmount: s.TotalAmount,
	}
}
