package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/pricing"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceColumns = []string{
	"id", "property_id", "number", "guest_name", "room_number", "reservation_ref", "currency",
	"issue_date", "due_date", "status", "subtotal", "total_tax", "discounts", "total_amount",
	"total_paid", "outstanding_balance", "last_payment_date", "notes", "created_by",
	"created_at", "updated_at",
}

var paymentColumns = []string{
	"id", "invoice_id", "amount", "method", "reference", "received_at", "recorded_by", "created_at",
}

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func sampleInvoice(now time.Time) *model.Invoice {
	return &model.Invoice{
		BaseModel:          model.BaseModel{ID: "inv-1", CreatedAt: now, UpdatedAt: now},
		PropertyID:         "prop-1",
		GuestName:          "Asha Rao",
		Currency:           model.CurrencyINR,
		IssueDate:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:            time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:             model.InvoicePending,
		Subtotal:           decimal.RequireFromString("1000"),
		TotalTax:           decimal.RequireFromString("120"),
		TotalAmount:        decimal.RequireFromString("1120"),
		OutstandingBalance: decimal.RequireFromString("1120"),
		Items: []model.LineItem{
			{ID: "li-1", Category: model.CategoryRoom, Description: "Deluxe", Quantity: 2,
				UnitPrice: decimal.RequireFromString("500"), TaxRatePercent: decimal.RequireFromString("12"),
				Subtotal: decimal.RequireFromString("1000"), TaxAmount: decimal.RequireFromString("120"),
				Total: decimal.RequireFromString("1120"), CreatedAt: now},
		},
	}
}

func TestCreate_AssignsNextNumber(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("prop-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(CAST(substring(number FROM $2) AS INTEGER)), 0)`)).
		WithArgs("prop-1", 10, "INV-2026-%").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(41))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO invoices`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO invoice_items`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inv := sampleInvoice(now)
	require.NoError(t, repo.Create(context.Background(), inv))
	assert.Equal(t, "INV-2026-0042", inv.Number)
	require.NotNil(t, inv.Items[0].InvoiceID)
	assert.Equal(t, "inv-1", *inv.Items[0].InvoiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_FirstNumberOfYear(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO invoices`)).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	inv := sampleInvoice(time.Now())
	err := repo.Create(context.Background(), inv)
	assert.ErrorContains(t, err, "failed to insert invoice")
	assert.Equal(t, "INV-2026-0001", inv.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_KeepsSubCentTax(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	item := model.LineItem{ID: "li-1", Category: model.CategoryFood, Description: "Club sandwich", Quantity: 1,
		UnitPrice: decimal.RequireFromString("33.33"), TaxRatePercent: decimal.RequireFromString("2.5"), CreatedAt: now}
	pricing.Apply(&item)
	inv := sampleInvoice(now)
	inv.Items = []model.LineItem{item}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO invoices`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO invoice_items`)).
		WithArgs("li-1", "inv-1", nil, nil, model.CategoryFood, "Club sandwich", 1,
			"33.33", "2.5", "33.33", "0.83325", "34.16325", 0, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), inv))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM invoice_items WHERE invoice_id = $1`)).
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_id", "category", "description", "quantity",
			"unit_price", "tax_rate_percent", "subtotal", "tax_amount", "total", "position", "created_at",
		}).AddRow("li-1", "inv-1", "food", "Club sandwich", 1, "33.33", "2.5", "33.33", "0.83325", "34.16325", 0, now))

	items, err := repo.FindItems(context.Background(), "inv-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "0.83325", items[0].TaxAmount.String())
	assert.Equal(t, "34.16325", items[0].Total.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM invoices WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	inv, err := repo.FindByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, inv)
}

func TestFindByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM invoices WHERE id = $1`)).
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).AddRow(
			"inv-1", "prop-1", "INV-2026-0001", "Asha Rao", "1204", nil, "INR",
			now, now, "partially_paid", "1000", "120", "0", "1120",
			"500", "620", now, "", nil, now, now,
		))

	inv, err := repo.FindByID(context.Background(), "inv-1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, model.InvoicePartiallyPaid, inv.Status)
	assert.True(t, decimal.RequireFromString("620").Equal(inv.OutstandingBalance))
	require.NotNil(t, inv.RoomNumber)
	assert.Equal(t, "1204", *inv.RoomNumber)
	assert.NotNil(t, inv.LastPaymentDate)
}

func TestFindPayments(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM payments WHERE invoice_id = $1 ORDER BY received_at, created_at`)).
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows(paymentColumns).
			AddRow("p-1", "inv-1", "500", "card", "", now, nil, now).
			AddRow("p-2", "inv-1", "620", "cash", "R-9", now, "user-1", now))

	payments, err := repo.FindPayments(context.Background(), "inv-1")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, model.PaymentCash, payments[1].Method)
	assert.Equal(t, "user-1", *payments[1].RecordedBy)
}

func TestFindAll(t *testing.T) {
	repo, mock := newMock(t)
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM invoices WHERE property_id = $1 AND status = $2 AND guest_name ILIKE $3 AND due_date < $4`)).
		WithArgs("prop-1", "overdue", "Ra%", due).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT * FROM invoices WHERE property_id = $1 AND status = $2 AND guest_name ILIKE $3 AND due_date < $4 ORDER BY issue_date DESC, number DESC LIMIT 20 OFFSET 20`)).
		ExpectQuery().
		WithArgs("prop-1", "overdue", "Ra%", due).
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	invoices, count, err := repo.FindAll(context.Background(), &dto.InvoiceFilters{
		PropertyID: "prop-1",
		Status:     "overdue",
		GuestName:  "Ra",
		DueBefore:  &due,
		Page:       2,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, invoices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindForReport_CurrencyFilter(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM invoices WHERE property_id = $1 AND currency = $2`)).
		WithArgs("prop-1", "USD").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	_, err := repo.FindForReport(context.Background(), "prop-1", "USD")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasSourceOrder(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM invoice_items WHERE invoice_id = $1 AND source_order_id = $2`)).
		WithArgs("inv-1", "order-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	posted, err := repo.HasSourceOrder(context.Background(), "inv-1", "order-1")
	require.NoError(t, err)
	assert.True(t, posted)
}

func TestAddPayment_UpdatesFiguresInSameTransaction(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE invoices SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inv := sampleInvoice(now)
	err := repo.AddPayment(context.Background(), inv, &model.Payment{
		ID: "p-1", InvoiceID: inv.ID, Amount: decimal.RequireFromString("500"),
		Method: model.PaymentCard, ReceivedAt: now, CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPayment_RollsBackWhenUpdateFails(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE invoices SET`)).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := repo.AddPayment(context.Background(), sampleInvoice(now), &model.Payment{ID: "p-1", InvoiceID: "inv-1"})
	assert.ErrorContains(t, err, "failed to update invoice")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItem(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM invoice_items WHERE id = $1 AND invoice_id = $2`)).
		WithArgs("li-1", "inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE invoices SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RemoveItem(context.Background(), sampleInvoice(time.Now()), "li-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
