package ledger

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func pay(amount string, at time.Time) model.Payment {
	return model.Payment{Amount: d(amount), Method: model.PaymentCash, ReceivedAt: at}
}

func TestScenarioC_FullyPaid(t *testing.T) {
	payments := []model.Payment{pay("500", t0), pay("620", t0.Add(time.Hour))}

	st := ComputePaymentStatus(d("1120"), payments)
	assert.True(t, d("1120").Equal(st.TotalPaid))
	assert.True(t, st.OutstandingBalance.IsZero())
	assert.Equal(t, model.InvoicePaid, ClassifyStatus(d("1120"), st.OutstandingBalance, t0.AddDate(0, 0, 7), t0))
}

func TestScenarioD_PartiallyPaid(t *testing.T) {
	st := ComputePaymentStatus(d("1120"), []model.Payment{pay("500", t0)})

	assert.True(t, d("620").Equal(st.OutstandingBalance))
	assert.Equal(t, model.InvoicePartiallyPaid, ClassifyStatus(d("1120"), st.OutstandingBalance, t0.AddDate(0, 0, 7), t0))
}

func TestComputePaymentStatus_NoPayments(t *testing.T) {
	st := ComputePaymentStatus(d("1120"), nil)

	assert.True(t, st.TotalPaid.IsZero())
	assert.True(t, d("1120").Equal(st.OutstandingBalance))
	assert.Nil(t, st.LastPaymentDate)
}

func TestComputePaymentStatus_LastPaymentDateIsMax(t *testing.T) {
	payments := []model.Payment{
		pay("10", t0.Add(2*time.Hour)),
		pay("10", t0),
		pay("10", t0.Add(5*time.Hour)),
		pay("10", t0.Add(time.Hour)),
	}

	st := ComputePaymentStatus(d("100"), payments)
	require.NotNil(t, st.LastPaymentDate)
	assert.True(t, st.LastPaymentDate.Equal(t0.Add(5*time.Hour)))

	payments[2].ReceivedAt = t0
	assert.True(t, st.LastPaymentDate.Equal(t0.Add(5*time.Hour)), "result must not alias the input")
}

func TestComputePaymentStatus_OutstandingIsExact(t *testing.T) {
	total := d("1000")
	var payments []model.Payment
	for i := 0; i < 30; i++ {
		payments = RecordPayment(payments, pay("0.1", t0.Add(time.Duration(i)*time.Minute)))
	}

	for i := 0; i < 5; i++ {
		st := ComputePaymentStatus(total, payments)
		assert.Equal(t, "997", st.OutstandingBalance.String())
		assert.Equal(t, "3", st.TotalPaid.String())
	}
}

func TestComputePaymentStatus_Idempotent(t *testing.T) {
	payments := []model.Payment{pay("333.33", t0), pay("12.005", t0.Add(time.Minute))}

	a := ComputePaymentStatus(d("1120"), payments)
	b := ComputePaymentStatus(d("1120"), payments)
	assert.Equal(t, a.TotalPaid.String(), b.TotalPaid.String())
	assert.Equal(t, a.OutstandingBalance.String(), b.OutstandingBalance.String())
	assert.Equal(t, *a.LastPaymentDate, *b.LastPaymentDate)
}

func TestOverpayment(t *testing.T) {
	st := ComputePaymentStatus(d("1120"), []model.Payment{pay("1200", t0)})

	assert.True(t, d("-80").Equal(st.OutstandingBalance))
	assert.Equal(t, model.InvoicePaid, ClassifyStatus(d("1120"), st.OutstandingBalance, t0.AddDate(0, 0, -1), t0))
}

func TestRecordPayment_DoesNotMutate(t *testing.T) {
	existing := make([]model.Payment, 1, 4)
	existing[0] = pay("500", t0)

	updated := RecordPayment(existing, pay("620", t0.Add(time.Hour)))
	require.Len(t, updated, 2)
	assert.Len(t, existing, 1)

	again := RecordPayment(existing, pay("1", t0))
	assert.True(t, d("620").Equal(updated[1].Amount), "earlier result must not be overwritten")
	assert.True(t, d("1").Equal(again[1].Amount))
}

func TestRecordPayment_NoTotalCheck(t *testing.T) {
	updated := RecordPayment(nil, pay("99999", t0))
	assert.Len(t, updated, 1)
}

func TestClassifyStatus(t *testing.T) {
	due := t0.AddDate(0, 0, 7)
	tests := []struct {
		name        string
		total       string
		outstanding string
		now         time.Time
		want        model.InvoiceStatus
	}{
		{"nothing paid before due", "1120", "1120", t0, model.InvoicePending},
		{"nothing paid at due instant", "1120", "1120", due, model.InvoicePending},
		{"nothing paid after due", "1120", "1120", due.Add(time.Second), model.InvoiceOverdue},
		{"partly paid before due", "1120", "620", t0, model.InvoicePartiallyPaid},
		{"partly paid after due", "1120", "620", due.Add(time.Hour), model.InvoiceOverdue},
		{"settled after due", "1120", "0", due.AddDate(0, 1, 0), model.InvoicePaid},
		{"zero total", "0", "0", t0, model.InvoicePaid},
		{"overpaid", "1120", "-5", t0, model.InvoicePaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(d(tt.total), d(tt.outstanding), due, tt.now))
		})
	}
}

func TestReclassify_SkipsCancelled(t *testing.T) {
	inv := &model.Invoice{
		Status:             model.InvoiceCancelled,
		TotalAmount:        d("100"),
		OutstandingBalance: d("100"),
		DueDate:            t0,
	}
	assert.Equal(t, model.InvoiceCancelled, Reclassify(inv, t0.AddDate(0, 1, 0)))

	inv.Status = model.InvoicePending
	assert.Equal(t, model.InvoiceOverdue, Reclassify(inv, t0.AddDate(0, 1, 0)))
}
