package ledger

import (
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

// ClassifyStatus maps paid figures to an invoice status:
//
//	outstanding <= 0                 paid
//	outstanding > 0, now past due    overdue
//	0 < outstanding < total          partially_paid
//	otherwise                        pending
//
// cancelled is never derived.
func ClassifyStatus(totalAmount, outstanding decimal.Decimal, dueDate, now time.Time) model.InvoiceStatus {
	switch {
	case !outstanding.IsPositive():
		return model.InvoicePaid
	case now.After(dueDate):
		return model.InvoiceOverdue
	case outstanding.LessThan(totalAmount):
		return model.InvoicePartiallyPaid
	default:
		return model.InvoicePending
	}
}

// Reclassify returns the status inv should have at now. Cancelled invoices
// keep their status.
func Reclassify(inv *model.Invoice, now time.Time) model.InvoiceStatus {
	if inv.IsCancelled() {
		return inv.Status
	}
	return ClassifyStatus(inv.TotalAmount, inv.OutstandingBalance, inv.DueDate, now)
}
