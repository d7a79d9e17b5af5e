package model

import "github.com/shopspring/decimal"

// CatalogItem is an ancillary service a property sells: a minibar item, a
// laundry piece, a spa treatment.
type CatalogItem struct {
	BaseModel
	PropertyID     string           `db:"property_id" json:"property_id"`
	Code           string           `db:"code" json:"code"`
	Name           string           `db:"name" json:"name"`
	Description    *string          `db:"description" json:"description"`
	Category       LineItemCategory `db:"category" json:"category"`
	UnitPrice      decimal.Decimal  `db:"unit_price" json:"unit_price"`
	TaxRatePercent decimal.Decimal  `db:"tax_rate_percent" json:"tax_rate_percent"`
	IsActive       bool             `db:"is_active" json:"is_active"`
}
