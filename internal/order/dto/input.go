package dto

import "github.com/fekuna/omnipos-billing-service/internal/pricing"

type CreateOrderInput struct {
	PropertyID     string
	UserID         string
	Outlet         string
	RoomNumber     string
	FolioInvoiceID string
	PaymentMethod  string
	Currency       string
	Notes          string
	Lines          []pricing.LineInput
}
