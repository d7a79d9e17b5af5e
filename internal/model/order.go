package model

import "github.com/shopspring/decimal"

// Order is a point-of-sale ticket from an outlet. Orders carry no discount.
type Order struct {
	BaseModel
	PropertyID     string          `db:"property_id" json:"property_id"`
	Outlet         string          `db:"outlet" json:"outlet"`
	RoomNumber     *string         `db:"room_number" json:"room_number"`
	FolioInvoiceID *string         `db:"folio_invoice_id" json:"folio_invoice_id"`
	PaymentMethod  PaymentMethod   `db:"payment_method" json:"payment_method"`
	Currency       Currency        `db:"currency" json:"currency"`
	Status         OrderStatus     `db:"status" json:"status"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	TotalTax       decimal.Decimal `db:"total_tax" json:"total_tax"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	Notes          string          `db:"notes" json:"notes"`
	CreatedBy      *string         `db:"created_by" json:"created_by"`
	Items          []LineItem      `db:"-" json:"items"`
}
