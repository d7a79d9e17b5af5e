// Package ledger derives what has been paid on an invoice from its full
// payment history. Nothing here keeps running totals.
package ledger

import (
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

type Status struct {
	TotalPaid          decimal.Decimal `json:"total_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
}

// RecordPayment returns a new slice holding existing followed by p. It does
// not compare against the invoice total.
func RecordPayment(existing []model.Payment, p model.Payment) []model.Payment {
	out := make([]model.Payment, 0, len(existing)+1)
	out = append(out, existing...)
	return append(out, p)
}

// ComputePaymentStatus re-derives the paid figures from payments. An
// overpaid invoice has a negative outstanding balance.
func ComputePaymentStatus(totalAmount decimal.Decimal, payments []model.Payment) Status {
	paid := decimal.Zero
	var last *time.Time
	for i := range payments {
		paid = paid.Add(payments[i].Amount)
		if last == nil || payments[i].ReceivedAt.After(*last) {
			ts := payments[i].ReceivedAt
			last = &ts
		}
	}
	return Status{
		TotalPaid:          paid,
		OutstandingBalance: totalAmount.Sub(paid),
		LastPaymentDate:    last,
	}
}
