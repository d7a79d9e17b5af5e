// Package billingv1 declares the omnipos.billing.v1 gRPC services and their
// messages. Messages travel as JSON through pkg/grpcjson, and the same types
// are the REST request and response bodies.
package billingv1

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FormValue is a number as the user typed it. It accepts a JSON number or a
// JSON string so that unparseable input reaches the server and is clamped
// there instead of failing decoding.
type FormValue string

func (f *FormValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FormValue(s)
		return nil
	}
	*f = FormValue(b)
	return nil
}

func (f FormValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// LineInput is one cart or folio row as entered. When CatalogItemID is set
// price, tax rate and category come from the catalog.
type LineInput struct {
	CatalogItemID  string    `json:"catalog_item_id,omitempty"`
	Category       string    `json:"category,omitempty"`
	Description    string    `json:"description,omitempty"`
	Quantity       FormValue `json:"quantity"`
	UnitPrice      FormValue `json:"unit_price,omitempty"`
	TaxRatePercent FormValue `json:"tax_rate_percent,omitempty"`
}

type LineItem struct {
	ID             string          `json:"id,omitempty"`
	CatalogItemID  string          `json:"catalog_item_id,omitempty"`
	SourceOrderID  string          `json:"source_order_id,omitempty"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalTax    decimal.Decimal `json:"total_tax"`
	Discounts   decimal.Decimal `json:"discounts"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type Empty struct{}

type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
