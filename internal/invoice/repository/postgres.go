package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertInvoiceQuery = `
    INSERT INTO invoices (
        id, property_id, number, guest_name, room_number, reservation_ref, currency,
        issue_date, due_date, status, subtotal, total_tax, discounts, total_amount,
        total_paid, outstanding_balance, last_payment_date, notes, created_by,
        created_at, updated_at
    )
    VALUES (
        :id, :property_id, :number, :guest_name, :room_number, :reservation_ref, :currency,
        :issue_date, :due_date, :status, :subtotal, :total_tax, :discounts, :total_amount,
        :total_paid, :outstanding_balance, :last_payment_date, :notes, :created_by,
        :created_at, :updated_at
    )
`

const insertItemQuery = `
    INSERT INTO invoice_items (
        id, invoice_id, catalog_item_id, source_order_id, category, description, quantity,
        unit_price, tax_rate_percent, subtotal, tax_amount, total, position, created_at
    )
    VALUES (
        :id, :invoice_id, :catalog_item_id, :source_order_id, :category, :description, :quantity,
        :unit_price, :tax_rate_percent, :subtotal, :tax_amount, :total, :position, :created_at
    )
`

const insertPaymentQuery = `
    INSERT INTO payments (
        id, invoice_id, amount, method, reference, received_at, recorded_by, created_at
    )
    VALUES (
        :id, :invoice_id, :amount, :method, :reference, :received_at, :recorded_by, :created_at
    )
`

const updateFiguresQuery = `
    UPDATE invoices SET
        status = :status,
        subtotal = :subtotal,
        total_tax = :total_tax,
        discounts = :discounts,
        total_amount = :total_amount,
        total_paid = :total_paid,
        outstanding_balance = :outstanding_balance,
        last_payment_date = :last_payment_date,
        notes = :notes,
        updated_at = :updated_at
    WHERE id = :id
`

func (r *PGRepository) Create(ctx context.Context, inv *model.Invoice) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	number, err := nextNumber(ctx, tx, inv.PropertyID, inv.IssueDate.Year())
	if err != nil {
		return fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	inv.Number = number

	if _, err := tx.NamedExecContext(ctx, insertInvoiceQuery, inv); err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return err
	}

	return tx.Commit()
}

// nextNumber serializes numbering per property with a transaction-scoped
// advisory lock, so concurrent creates cannot pick the same sequence.
func nextNumber(ctx context.Context, tx *sqlx.Tx, propertyID string, year int) (string, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, propertyID); err != nil {
		return "", err
	}

	prefix := fmt.Sprintf("INV-%d-", year)
	var seq int
	err := tx.GetContext(ctx, &seq, `
        SELECT COALESCE(MAX(CAST(substring(number FROM $2) AS INTEGER)), 0)
        FROM invoices
        WHERE property_id = $1 AND number LIKE $3
    `, propertyID, len(prefix)+1, prefix+"%")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, invoiceID string, items []model.LineItem) error {
	for i := range items {
		items[i].InvoiceID = &invoiceID
		if _, err := tx.NamedExecContext(ctx, insertItemQuery, &items[i]); err != nil {
			return fmt.Errorf("failed to insert invoice item %d: %w", i, err)
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.DB.GetContext(ctx, &inv, `SELECT * FROM invoices WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) FindItems(ctx context.Context, invoiceID string) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM invoice_items WHERE invoice_id = $1 ORDER BY position, created_at`, invoiceID)
	return items, err
}

func (r *PGRepository) FindPayments(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.DB.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE invoice_id = $1 ORDER BY received_at, created_at`, invoiceID)
	return payments, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InvoiceFilters) ([]model.Invoice, int, error) {
	var invoices []model.Invoice
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.PropertyID != "" {
		conditions = append(conditions, "property_id = :property_id")
		args["property_id"] = f.PropertyID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.GuestName != "" {
		conditions = append(conditions, "guest_name ILIKE :guest_name")
		args["guest_name"] = f.GuestName + "%"
	}
	if f.RoomNumber != "" {
		conditions = append(conditions, "room_number = :room_number")
		args["room_number"] = f.RoomNumber
	}
	if f.DueBefore != nil {
		conditions = append(conditions, "due_date < :due_before")
		args["due_before"] = *f.DueBefore
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM invoices"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM invoices" + whereClause + " ORDER BY issue_date DESC, number DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &invoices, args)
	return invoices, count, err
}

func (r *PGRepository) FindForReport(ctx context.Context, propertyID, currency string) ([]model.Invoice, error) {
	query := `SELECT * FROM invoices WHERE property_id = $1`
	args := []interface{}{propertyID}
	if currency != "" {
		query += ` AND currency = $2`
		args = append(args, currency)
	}

	var invoices []model.Invoice
	err := r.DB.SelectContext(ctx, &invoices, query, args...)
	return invoices, err
}

func (r *PGRepository) HasSourceOrder(ctx context.Context, invoiceID, orderID string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM invoice_items WHERE invoice_id = $1 AND source_order_id = $2`, invoiceID, orderID)
	return count > 0, err
}

func (r *PGRepository) AddItems(ctx context.Context, inv *model.Invoice, items []model.LineItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertItems(ctx, tx, inv.ID, items); err != nil {
		return err
	}
	if _, err := tx.NamedExecContext(ctx, updateFiguresQuery, inv); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) RemoveItem(ctx context.Context, inv *model.Invoice, itemID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM invoice_items WHERE id = $1 AND invoice_id = $2`, itemID, inv.ID); err != nil {
		return fmt.Errorf("failed to delete invoice item: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, updateFiguresQuery, inv); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) AddPayment(ctx context.Context, inv *model.Invoice, p *model.Payment) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertPaymentQuery, p); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, updateFiguresQuery, inv); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) UpdateFigures(ctx context.Context, inv *model.Invoice) error {
	_, err := r.DB.NamedExecContext(ctx, updateFiguresQuery, inv)
	return err
}
