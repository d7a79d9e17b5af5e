package invoice

import (
	"sort"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/ledger"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

type StatusBucket struct {
	Status      model.InvoiceStatus `json:"status"`
	Count       int                 `json:"count"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	TotalPaid   decimal.Decimal     `json:"total_paid"`
	Outstanding decimal.Decimal     `json:"outstanding"`
}

type CurrencyReceivables struct {
	Currency         model.Currency  `json:"currency"`
	Buckets          []StatusBucket  `json:"buckets"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type Receivables struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Currencies  []CurrencyReceivables `json:"currencies"`
}

// BuildReceivables groups invoices by currency and by the status each has at
// now. Amounts in different currencies are never added together. Cancelled
// invoices get a bucket but stay out of the currency totals.
func BuildReceivables(invoices []model.Invoice, now time.Time) *Receivables {
	byCurrency := map[model.Currency]map[model.InvoiceStatus]*StatusBucket{}
	for i := range invoices {
		inv := &invoices[i]
		buckets, ok := byCurrency[inv.Currency]
		if !ok {
			buckets = map[model.InvoiceStatus]*StatusBucket{}
			byCurrency[inv.Currency] = buckets
		}

		status := ledger.Reclassify(inv, now)
		b, ok := buckets[status]
		if !ok {
			b = &StatusBucket{Status: status}
			buckets[status] = b
		}
		b.Count++
		b.TotalAmount = b.TotalAmount.Add(inv.TotalAmount)
		b.TotalPaid = b.TotalPaid.Add(inv.TotalPaid)
		b.Outstanding = b.Outstanding.Add(inv.TotalAmount.Sub(inv.TotalPaid))
	}

	report := &Receivables{GeneratedAt: now, Currencies: []CurrencyReceivables{}}
	for currency, buckets := range byCurrency {
		cr := CurrencyReceivables{Currency: currency}
		for _, status := range model.InvoiceStatuses {
			b, ok := buckets[status]
			if !ok {
				continue
			}
			cr.Buckets = append(cr.Buckets, *b)
			if status == model.InvoiceCancelled {
				continue
			}
			cr.TotalBilled = cr.TotalBilled.Add(b.TotalAmount)
			cr.TotalPaid = cr.TotalPaid.Add(b.TotalPaid)
			cr.TotalOutstanding = cr.TotalOutstanding.Add(b.Outstanding)
		}
		report.Currencies = append(report.Currencies, cr)
	}
	sort.Slice(report.Currencies, func(i, j int) bool {
		return report.Currencies[i].Currency < report.Currencies[j].Currency
	})
	return report
}
