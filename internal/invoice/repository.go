package invoice

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type Repository interface {
	// Create assigns the next INV-YYYY-NNNN number for the property and
	// stores the invoice with its items in one transaction.
	Create(ctx context.Context, inv *model.Invoice) error
	FindByID(ctx context.Context, id string) (*model.Invoice, error)
	FindItems(ctx context.Context, invoiceID string) ([]model.LineItem, error)
	FindPayments(ctx context.Context, invoiceID string) ([]model.Payment, error)
	FindAll(ctx context.Context, filters *dto.InvoiceFilters) ([]model.Invoice, int, error)
	// FindForReport returns the figures of every invoice of the property,
	// optionally limited to one currency. Items and payments are not loaded.
	FindForReport(ctx context.Context, propertyID, currency string) ([]model.Invoice, error)
	HasSourceOrder(ctx context.Context, invoiceID, orderID string) (bool, error)

	// The writes below store inv's derived figures together with the change.
	AddItems(ctx context.Context, inv *model.Invoice, items []model.LineItem) error
	RemoveItem(ctx context.Context, inv *model.Invoice, itemID string) error
	AddPayment(ctx context.Context, inv *model.Invoice, p *model.Payment) error
	UpdateFigures(ctx context.Context, inv *model.Invoice) error
}
