package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/stock/dto"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Get(ctx context.Context, productID, warehouseID string) (*model.Stock, error) {
	var s model.Stock
	err := r.DB.GetContext(ctx, &s,
		`SELECT * FROM stocks WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockFilters) ([]model.Stock, int, error) {
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
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM stocks" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stocks" + whereClause + " ORDER BY last_updated DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.Stock
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Recalculate(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	total, err := RecalculateTx(ctx, tx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, tx.Commit()
}

// RecalculateTx recomputes quantity_on_hand as the live sum of batch
// quantities inside the caller's transaction. A positive total upserts the
// stock row with its threshold status; a zero or negative total deletes the
// row, since absence means zero. Batch and movement repositories call this
// as the tail of their own mutations.
func RecalculateTx(ctx context.Context, tx *sqlx.Tx, productID, warehouseID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(quantity), 0) FROM batches WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum batches: %w", err)
	}

	if total.GreaterThan(decimal.Zero) {
		status := model.CalculateStockStatus(total)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stocks (id, product_id, warehouse_id, quantity_on_hand, status, last_updated, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (product_id, warehouse_id)
			DO UPDATE SET
				quantity_on_hand = EXCLUDED.quantity_on_hand,
				status = EXCLUDED.status,
				last_updated = EXCLUDED.last_updated`,
			uuid.New().String(), productID, warehouseID, total, status, time.Now())
		if err != nil {
			return decimal.Zero, fmt.Errorf("upsert stock: %w", err)
		}
	} else {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM stocks WHERE product_id = $1 AND warehouse_id = $2`,
			productID, warehouseID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("delete stock: %w", err)
		}
	}

	return total, nil
}
