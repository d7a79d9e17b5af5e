package order

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order/dto"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrNotOpen  = errors.New("order is not open")
)

type UseCase interface {
	// QuoteCart prices lines without persisting anything.
	QuoteCart(ctx context.Context, propertyID string, lines []pricing.LineInput) ([]model.LineItem, pricing.Summary, error)
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, propertyID, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	SettleOrder(ctx context.Context, propertyID, id string) (*model.Order, error)
	VoidOrder(ctx context.Context, propertyID, id, reason string) (*model.Order, error)
	// MarkPosted moves an open room charge order to posted_to_folio once its
	// lines are on the folio.
	MarkPosted(ctx context.Context, propertyID, id string) (*model.Order, error)
}

// EventPublisher emits order events for other consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, v any) error
}

// FolioChecker returns the folio invoiceID of propertyID when it can still
// take charges. A missing or cancelled folio is nil with a nil error.
type FolioChecker interface {
	OpenFolio(ctx context.Context, propertyID, invoiceID string) (*model.Invoice, error)
}
