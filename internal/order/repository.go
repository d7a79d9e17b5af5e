package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order/dto"
)

type Repository interface {
	// Create stores the order and its items in one transaction.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindItems(ctx context.Context, orderID string) ([]model.LineItem, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// UpdateStatus moves the order from one status to another. It reports
	// false when the order was no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus, notes string, at time.Time) (bool, error)
}
