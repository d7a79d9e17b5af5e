package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	UseCase
	items map[string]model.CatalogItem
	calls int
}

func (s *stubCatalog) GetItems(_ context.Context, propertyID string, ids []string) (map[string]model.CatalogItem, error) {
	s.calls++
	out := map[string]model.CatalogItem{}
	for _, id := range ids {
		if it, ok := s.items[id]; ok && it.PropertyID == propertyID {
			out[id] = it
		}
	}
	return out, nil
}

func newStub() *stubCatalog {
	return &stubCatalog{items: map[string]model.CatalogItem{
		"spa-60": {
			BaseModel:      model.BaseModel{ID: "spa-60"},
			PropertyID:     "prop-1",
			Name:           "Massage 60",
			Category:       model.CategorySpa,
			UnitPrice:      decimal.RequireFromString("2500"),
			TaxRatePercent: decimal.RequireFromString("12"),
			IsActive:       true,
		},
		"old": {
			BaseModel:  model.BaseModel{ID: "old"},
			PropertyID: "prop-1",
			Category:   model.CategoryFood,
			IsActive:   false,
		},
	}}
}

func TestResolveLines_ScenarioB(t *testing.T) {
	stub := newStub()
	items, err := ResolveLines(context.Background(), stub, "prop-1", []pricing.LineInput{
		{CatalogItemID: "spa-60", Quantity: "1"},
		{Category: "laundry", Description: "Shirt press", Quantity: "3", UnitPrice: "100", TaxRatePercent: "5"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Massage 60", items[0].Description)
	assert.Equal(t, model.CategorySpa, items[0].Category)
	assert.Equal(t, 1, items[1].Position)

	s := pricing.Summarize(items, decimal.Zero)
	assert.True(t, decimal.RequireFromString("2800").Equal(s.Subtotal))
	assert.True(t, decimal.RequireFromString("315").Equal(s.TotalTax))
	assert.True(t, decimal.RequireFromString("3115").Equal(s.TotalAmount))
	for _, it := range items {
		assert.True(t, it.Total.Equal(it.Subtotal.Add(it.TaxAmount)))
	}
}

func TestResolveLines_SanitizesFreeRows(t *testing.T) {
	items, err := ResolveLines(context.Background(), newStub(), "prop-1", []pricing.LineInput{
		{Description: "Phone call", Quantity: "-2", UnitPrice: "abc", TaxRatePercent: "-5"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, model.CategoryOther, items[0].Category)
	assert.True(t, items[0].UnitPrice.IsZero())
	assert.True(t, items[0].TaxRatePercent.IsZero())
	assert.True(t, items[0].Total.IsZero())
}

func TestResolveLines_SkipsCatalogLookupForFreeRows(t *testing.T) {
	stub := newStub()
	_, err := ResolveLines(context.Background(), stub, "prop-1", []pricing.LineInput{
		{Description: "Airport pickup", Category: "transport", Quantity: "1", UnitPrice: "900"},
	})
	require.NoError(t, err)
	assert.Zero(t, stub.calls)
}

func TestResolveLines_Violations(t *testing.T) {
	_, err := ResolveLines(context.Background(), newStub(), "prop-1", []pricing.LineInput{
		{CatalogItemID: "missing", Quantity: "1"},
		{CatalogItemID: "old", Quantity: "1"},
		{CatalogItemID: "spa-60", Quantity: "1"},
		{Category: "casino", Quantity: "1"},
	})

	var v validation.Violations
	require.True(t, errors.As(err, &v))
	assert.ElementsMatch(t, []string{
		"items[0].catalog_item_id",
		"items[1].catalog_item_id",
		"items[3].category",
		"items[3].description",
	}, v.Fields())
}

func TestResolveLines_OtherPropertyItem(t *testing.T) {
	_, err := ResolveLines(context.Background(), newStub(), "prop-2", []pricing.LineInput{
		{CatalogItemID: "spa-60", Quantity: "1"},
	})
	var v validation.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, []string{"items[0].catalog_item_id"}, v.Fields())
}

func TestResolveLines_Empty(t *testing.T) {
	_, err := ResolveLines(context.Background(), newStub(), "prop-1", nil)
	var v validation.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, []string{"items"}, v.Fields())
}
