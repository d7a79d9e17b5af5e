package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one priced row of an order or an invoice. Subtotal, TaxAmount
// and Total are derived from Quantity, UnitPrice and TaxRatePercent and are
// only ever written through pricing.Apply.
type LineItem struct {
	ID             string           `db:"id" json:"id"`
	OrderID        *string          `db:"order_id" json:"order_id,omitempty"`
	InvoiceID      *string          `db:"invoice_id" json:"invoice_id,omitempty"`
	SourceOrderID  *string          `db:"source_order_id" json:"source_order_id,omitempty"`
	CatalogItemID  *string          `db:"catalog_item_id" json:"catalog_item_id,omitempty"`
	Category       LineItemCategory `db:"category" json:"category"`
	Description    string           `db:"description" json:"description"`
	Quantity       int              `db:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal  `db:"unit_price" json:"unit_price"`
	TaxRatePercent decimal.Decimal  `db:"tax_rate_percent" json:"tax_rate_percent"`
	Subtotal       decimal.Decimal  `db:"subtotal" json:"subtotal"`
	TaxAmount      decimal.Decimal  `db:"tax_amount" json:"tax_amount"`
	Total          decimal.Decimal  `db:"total" json:"total"`
	Position       int              `db:"position" json:"position"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}
