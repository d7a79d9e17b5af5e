package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a guest folio. TotalPaid, OutstandingBalance and LastPaymentDate
// are stored copies of what the ledger derives from Payments.
type Invoice struct {
	BaseModel
	PropertyID         string          `db:"property_id" json:"property_id"`
	Number             string          `db:"number" json:"number"`
	GuestName          string          `db:"guest_name" json:"guest_name"`
	RoomNumber         *string         `db:"room_number" json:"room_number"`
	ReservationRef     *string         `db:"reservation_ref" json:"reservation_ref"`
	Currency           Currency        `db:"currency" json:"currency"`
	IssueDate          time.Time       `db:"issue_date" json:"issue_date"`
	DueDate            time.Time       `db:"due_date" json:"due_date"`
	Status             InvoiceStatus   `db:"status" json:"status"`
	Subtotal           decimal.Decimal `db:"subtotal" json:"subtotal"`
	TotalTax           decimal.Decimal `db:"total_tax" json:"total_tax"`
	Discounts          decimal.Decimal `db:"discounts" json:"discounts"`
	TotalAmount        decimal.Decimal `db:"total_amount" json:"total_amount"`
	TotalPaid          decimal.Decimal `db:"total_paid" json:"total_paid"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance" json:"outstanding_balance"`
	LastPaymentDate    *time.Time      `db:"last_payment_date" json:"last_payment_date,omitempty"`
	Notes              string          `db:"notes" json:"notes"`
	CreatedBy          *string         `db:"created_by" json:"created_by"`
	Items              []LineItem      `db:"-" json:"items"`
	Payments           []Payment       `db:"-" json:"payments"`
}

func (i *Invoice) IsCancelled() bool {
	return i.Status == InvoiceCancelled
}

type Payment struct {
	ID         string          `db:"id" json:"id"`
	InvoiceID  string          `db:"invoice_id" json:"invoice_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Method     PaymentMethod   `db:"method" json:"method"`
	Reference  string          `db:"reference" json:"reference"`
	ReceivedAt time.Time       `db:"received_at" json:"received_at"`
	RecordedBy *string         `db:"recorded_by" json:"recorded_by"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
