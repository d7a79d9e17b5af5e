package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, item *model.CatalogItem) error {
	query := `
        INSERT INTO catalog_items (
            id, property_id, code, name, description, category,
            unit_price, tax_rate_percent, is_active, created_at, updated_at
        )
        VALUES (
            :id, :property_id, :code, :name, :description, :category,
            :unit_price, :tax_rate_percent, :is_active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	var item model.CatalogItem
	query := `SELECT * FROM catalog_items WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, propertyID string, ids []string) ([]model.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM catalog_items WHERE property_id = ? AND id IN (?)`, propertyID, ids)
	if err != nil {
		return nil, err
	}

	var items []model.CatalogItem
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.CatalogItem, int, error) {
	var items []model.CatalogItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.PropertyID != "" {
		conditions = append(conditions, "property_id = :property_id")
		args["property_id"] = f.PropertyID
	}
	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR code ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM catalog_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// whitelist, the value is interpolated
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "unit_price"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM catalog_items%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) Update(ctx context.Context, item *model.CatalogItem) error {
	query := `
        UPDATE catalog_items
        SET code = :code,
            name = :name,
            description = :description,
            category = :category,
            unit_price = :unit_price,
            tax_rate_percent = :tax_rate_percent,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND property_id = :property_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, propertyID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM catalog_items WHERE id = $1 AND property_id = $2", id, propertyID)
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, propertyID, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM catalog_items WHERE property_id = $1 AND code = $2`
	args := []interface{}{propertyID, code}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}
