package order

import (
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

const EventOrderCreated = "OrderCreated"

// OrderCreatedEvent is published to the orders topic keyed by order id.
type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID             string              `json:"id"`
	PropertyID     string              `json:"property_id"`
	Outlet         string              `json:"outlet"`
	RoomNumber     *string             `json:"room_number,omitempty"`
	FolioInvoiceID *string             `json:"folio_invoice_id,omitempty"`
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	Currency       model.Currency      `json:"currency"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TotalTax       decimal.Decimal     `json:"total_tax"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	Items          []model.LineItem    `json:"items"`
}

// ChargesFolio reports whether the order should be posted to a guest folio.
func (p OrderPayload) ChargesFolio() bool {
	return p.PaymentMethod == model.PaymentRoomCharge && p.FolioInvoiceID != nil && *p.FolioInvoiceID != ""
}

func NewOrderCreatedEvent(eventID string, o *model.Order, at time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventID:   eventID,
		EventType: EventOrderCreated,
		Timestamp: at,
		Payload: OrderPayload{
			ID:             o.ID,
			PropertyID:     o.PropertyID,
			Outlet:         o.Outlet,
			RoomNumber:     o.RoomNumber,
			FolioInvoiceID: o.FolioInvoiceID,
			PaymentMethod:  o.PaymentMethod,
			Currency:       o.Currency,
			Subtotal:       o.Subtotal,
			TotalTax:       o.TotalTax,
			TotalAmount:    o.TotalAmount,
			Items:          o.Items,
		},
	}
}
