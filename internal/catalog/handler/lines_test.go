package handler

import (
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesFromPB_KeepsRawInput(t *testing.T) {
	var in []billingv1.LineInput
	require.NoError(t, json.Unmarshal([]byte(`[
		{"description":"Shirt press","quantity":3,"unit_price":"1O0","tax_rate_percent":5.5},
		{"catalog_item_id":"spa-60","quantity":"-1"}
	]`), &in))

	out := LinesFromPB(in)
	assert.Equal(t, pricing.LineInput{
		Description: "Shirt press", Quantity: "3", UnitPrice: "1O0", TaxRatePercent: "5.5",
	}, out[0])
	assert.Equal(t, "spa-60", out[1].CatalogItemID)
	assert.Equal(t, "-1", out[1].Quantity)
}

func TestMapLineItemsToPB(t *testing.T) {
	catalogID, orderID := "spa-60", "order-1"
	item := model.LineItem{
		ID: "li-1", CatalogItemID: &catalogID, SourceOrderID: &orderID, Category: model.CategorySpa,
		Description: "Massage", Quantity: 1, UnitPrice: decimal.RequireFromString("2500"),
	}
	pricing.Apply(&item)

	out := MapLineItemsToPB([]model.LineItem{item})
	require.Len(t, out, 1)
	assert.Equal(t, "spa-60", out[0].CatalogItemID)
	assert.Equal(t, "order-1", out[0].SourceOrderID)
	assert.True(t, decimal.RequireFromString("2500").Equal(out[0].Total))
}
