package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/policy/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Upsert(ctx context.Context, p *model.ProductReorderPolicy) error {
	// The unique index on (product_id, warehouse_id) makes this the write-time
	// enforcement of the one-policy-per-pair invariant.
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO product_reorder_policies (
			id, product_id, warehouse_id, min_stock_level, reorder_quantity,
			lead_time_days, safety_stock, retrieval_method, is_active,
			created_by, updated_by, created_at, updated_at
		)
		VALUES (
			:id, :product_id, :warehouse_id, :min_stock_level, :reorder_quantity,
			:lead_time_days, :safety_stock, :retrieval_method, :is_active,
			:created_by, :updated_by, :created_at, :updated_at
		)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET
			min_stock_level = EXCLUDED.min_stock_level,
			reorder_quantity = EXCLUDED.reorder_quantity,
			lead_time_days = EXCLUDED.lead_time_days,
			safety_stock = EXCLUDED.safety_stock,
			retrieval_method = EXCLUDED.retrieval_method,
			is_active = EXCLUDED.is_active,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.ProductReorderPolicy, error) {
	var p model.ProductReorderPolicy
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM product_reorder_policies WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("policy %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PolicyFilters) ([]model.ProductReorderPolicy, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM product_reorder_policies" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM product_reorder_policies" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.ProductReorderPolicy
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ActiveFor(ctx context.Context, productID, warehouseID string) (*model.ProductReorderPolicy, error) {
	var p model.ProductReorderPolicy
	err := r.DB.GetContext(ctx, &p, `
		SELECT * FROM product_reorder_policies
		WHERE product_id = $1 AND warehouse_id = $2 AND is_active = true`,
		productID, warehouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM product_reorder_policies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("policy %s: %w", id, model.ErrNotFound)
	}
	return nil
}
