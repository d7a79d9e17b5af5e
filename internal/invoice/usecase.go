package invoice

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type UseCase interface {
	CreateInvoice(ctx context.Context, input *dto.CreateInvoiceInput) (*model.Invoice, error)
	// GetInvoice returns the invoice with its items and payments.
	GetInvoice(ctx context.Context, propertyID, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filters *dto.InvoiceFilters) ([]model.Invoice, int, error)
	AddItems(ctx context.Context, input *dto.AddItemsInput) (*model.Invoice, error)
	// PostOrder copies already priced order lines onto a folio. Posting the
	// same order twice leaves the folio unchanged.
	PostOrder(ctx context.Context, input *dto.PostOrderInput) (*model.Invoice, error)
	RemoveItem(ctx context.Context, propertyID, invoiceID, itemID string) (*model.Invoice, error)
	RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, *model.Invoice, error)
	CancelInvoice(ctx context.Context, propertyID, id, reason string) (*model.Invoice, error)
	RefreshStatus(ctx context.Context, propertyID, id string, now time.Time) (*model.Invoice, error)
	Receivables(ctx context.Context, propertyID, currency string) (*Receivables, error)
	// OpenFolio returns the invoice when it belongs to propertyID and is not
	// cancelled, otherwise nil.
	OpenFolio(ctx context.Context, propertyID, invoiceID string) (*model.Invoice, error)
}

// Scheduler queues the overdue check that fires once an invoice is due.
type Scheduler interface {
	ScheduleOverdueCheck(ctx context.Context, propertyID, invoiceID string, at time.Time) error
}

// Locker serializes read-modify-write cycles on one invoice.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
