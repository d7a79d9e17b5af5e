package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/google/uuid"
)

// ResolveLines turns entered rows into priced line items. Rows naming a
// catalog item take price, tax rate and category from it; free rows are
// sanitized from the raw values. Quantities are always sanitized.
func ResolveLines(ctx context.Context, uc UseCase, propertyID string, lines []pricing.LineInput) ([]model.LineItem, error) {
	v := validation.Violations{}
	if len(lines) == 0 {
		v.Add("items", validation.Required, nil)
		return nil, v
	}

	var ids []string
	for _, l := range lines {
		if l.CatalogItemID != "" {
			ids = append(ids, l.CatalogItemID)
		}
	}
	known := map[string]model.CatalogItem{}
	if len(ids) > 0 {
		var err error
		if known, err = uc.GetItems(ctx, propertyID, ids); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	items := make([]model.LineItem, 0, len(lines))
	for i, l := range lines {
		field := fmt.Sprintf("items[%d]", i)
		item := model.LineItem{
			ID:          uuid.New().String(),
			Description: strings.TrimSpace(l.Description),
			Quantity:    pricing.NormalizeQuantity(l.Quantity),
			Position:    i,
			CreatedAt:   now,
		}

		if l.CatalogItemID != "" {
			ci, ok := known[l.CatalogItemID]
			if !ok || !ci.IsActive {
				v.Add(field+".catalog_item_id", validation.Invalid, nil)
				continue
			}
			id := ci.ID
			item.CatalogItemID = &id
			item.Category = ci.Category
			item.UnitPrice = ci.UnitPrice
			item.TaxRatePercent = ci.TaxRatePercent
			if item.Description == "" {
				item.Description = ci.Name
			}
		} else {
			item.Category = model.LineItemCategory(strings.ToLower(strings.TrimSpace(l.Category)))
			if item.Category == "" {
				item.Category = model.CategoryOther
			}
			validation.Enum(field+".category", item.Category, item.Category.Valid(), model.Categories, v)
			validation.RequiredString(field+".description", item.Description, v)
			item.UnitPrice = pricing.NormalizeAmount(l.UnitPrice)
			item.TaxRatePercent = pricing.NormalizeAmount(l.TaxRatePercent)
		}

		pricing.Apply(&item)
		items = append(items, item)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
