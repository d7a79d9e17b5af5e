package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertOrderQuery = `
    INSERT INTO orders (
        id, property_id, outlet, room_number, folio_invoice_id, payment_method,
        currency, status, subtotal, total_tax, total_amount, notes, created_by,
        created_at, updated_at
    )
    VALUES (
        :id, :property_id, :outlet, :room_number, :folio_invoice_id, :payment_method,
        :currency, :status, :subtotal, :total_tax, :total_amount, :notes, :created_by,
        :created_at, :updated_at
    )
`

const insertOrderItemQuery = `
    INSERT INTO order_items (
        id, order_id, catalog_item_id, category, description, quantity,
        unit_price, tax_rate_percent, subtotal, tax_amount, total, position, created_at
    )
    VALUES (
        :id, :order_id, :catalog_item_id, :category, :description, :quantity,
        :unit_price, :tax_rate_percent, :subtotal, :tax_amount, :total, :position, :created_at
    )
`

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertOrderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range o.Items {
		o.Items[i].OrderID = &o.ID
		if _, err := tx.NamedExecContext(ctx, insertOrderItemQuery, &o.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindItems(ctx context.Context, orderID string) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
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
	if f.Outlet != "" {
		conditions = append(conditions, "outlet = :outlet")
		args["outlet"] = f.Outlet
	}
	if f.FolioInvoiceID != "" {
		conditions = append(conditions, "folio_invoice_id = :folio_invoice_id")
		args["folio_invoice_id"] = f.FolioInvoiceID
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at < :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, count, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus, notes string, at time.Time) (bool, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = $2,
            notes = CASE WHEN $3 = '' THEN notes ELSE $3 END
        WHERE id = $4 AND status = $5
    `
	res, err := r.DB.ExecContext(ctx, query, to, at, notes, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
