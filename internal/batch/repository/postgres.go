package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
	stockRepoPkg "github.com/oryxerp/inventory-service/internal/stock/repository"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, b *model.Batch) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO batches (
			id, product_id, warehouse_id, batch_number,
			quantity, manufacture_date, expiry_date, created_at
		)
		VALUES (
			:id, :product_id, :warehouse_id, :batch_number,
			:quantity, :manufacture_date, :expiry_date, :created_at
		)`, b)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	if _, err := stockRepoPkg.RecalculateTx(ctx, tx, b.ProductID, b.WarehouseID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Batch, error) {
	var b model.Batch
	err := r.DB.GetContext(ctx, &b, `SELECT * FROM batches WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("batch %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.BatchFilters) ([]model.Batch, int, error) {
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
	if f.BatchNumber != "" {
		conditions = append(conditions, "batch_number = :batch_number")
		args["batch_number"] = f.BatchNumber
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM batches" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM batches" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.Batch
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Available(ctx context.Context, productID, warehouseID string, method model.RetrievalMethod) ([]model.Batch, error) {
	query := `SELECT * FROM batches WHERE product_id = $1 AND warehouse_id = $2 AND quantity > 0`

	switch method {
	case model.RetrievalLIFO:
		query += ` ORDER BY created_at DESC`
	case model.RetrievalFEFO:
		query += ` AND expiry_date IS NOT NULL ORDER BY expiry_date ASC`
	default: // FIFO
		query += ` ORDER BY created_at ASC`
	}

	var items []model.Batch
	err := r.DB.SelectContext(ctx, &items, query, productID, warehouseID)
	return items, err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var b model.Batch
	if err := tx.GetContext(ctx, &b, `SELECT * FROM batches WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("batch %s: %w", id, model.ErrNotFound)
		}
		return err
	}

	// Historical movement allocations keep referencing the deleted id; only
	// the live quantity disappears from the ledger.
	if _, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}

	if _, err := stockRepoPkg.RecalculateTx(ctx, tx, b.ProductID, b.WarehouseID); err != nil {
		return err
	}

	return tx.Commit()
}
