package dto

import (
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/shopspring/decimal"
)

type CreateInvoiceInput struct {
	PropertyID     string
	UserID         string
	GuestName      string
	RoomNumber     string
	ReservationRef string
	Currency       string
	IssueDate      *time.Time
	DueDate        *time.Time
	// Discounts is the raw entered amount; empty means none.
	Discounts string
	Notes     string
	Lines     []pricing.LineInput
}

type AddItemsInput struct {
	PropertyID string
	InvoiceID  string
	Lines      []pricing.LineInput
}

type PostOrderInput struct {
	PropertyID string
	InvoiceID  string
	OrderID    string
	Currency   model.Currency
	Items      []model.LineItem
}

type RecordPaymentInput struct {
	PropertyID string
	InvoiceID  string
	UserID     string
	Amount     decimal.Decimal
	Method     string
	Reference  string
	ReceivedAt *time.Time
}
