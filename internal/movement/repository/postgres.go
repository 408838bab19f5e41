package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	alertRepoPkg "github.com/oryxerp/inventory-service/internal/alert/repository"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
	stockRepoPkg "github.com/oryxerp/inventory-service/internal/stock/repository"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Record(ctx context.Context, m *model.StockMovement) ([]model.StockPair, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO stock_movements (
			id, movement_type, total_quantity, reference_number, notes, created_by, created_at
		)
		VALUES (
			:id, :movement_type, :total_quantity, :reference_number, :notes, :created_by, :created_at
		)`, m)
	if err != nil {
		return nil, fmt.Errorf("insert movement: %w", err)
	}

	for i := range m.Allocations {
		a := &m.Allocations[i]
		a.MovementID = m.ID

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO stock_movement_batches (id, movement_id, batch_id, quantity)
			VALUES (:id, :movement_id, :batch_id, :quantity)`, a)
		if err != nil {
			return nil, fmt.Errorf("insert allocation: %w", err)
		}

		delta := m.MovementType.BatchDelta(a.Quantity)
		if err := applyBatchDeltaTx(ctx, tx, a.BatchID, delta); err != nil {
			return nil, err
		}
	}

	pairs, err := pairsForBatches(ctx, tx, allocationBatchIDs(m.Allocations))
	if err != nil {
		return nil, err
	}

	for _, pair := range pairs {
		total, err := stockRepoPkg.RecalculateTx(ctx, tx, pair.ProductID, pair.WarehouseID)
		if err != nil {
			return nil, err
		}
		if err := alertRepoPkg.EvaluateStockLevelTx(ctx, tx, pair.ProductID, pair.WarehouseID, total); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// applyBatchDeltaTx adds a signed delta to the batch quantity with a
// non-negative guard in the statement itself, so concurrent movements against
// the same batch cannot over-allocate regardless of what the callers read
// beforehand.
func applyBatchDeltaTx(ctx context.Context, tx *sqlx.Tx, batchID string, delta decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE batches SET quantity = quantity + $1 WHERE id = $2 AND quantity + $1 >= 0`,
		delta, batchID)
	if err != nil {
		return fmt.Errorf("apply batch delta: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM batches WHERE id = $1)`, batchID); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("batch %s: %w", batchID, model.ErrNotFound)
		}
		return fmt.Errorf("batch %s delta %s: %w", batchID, delta, model.ErrInsufficientQuantity)
	}

	return nil
}

func allocationBatchIDs(allocs []model.MovementAllocation) []string {
	ids := make([]string, 0, len(allocs))
	seen := map[string]bool{}
	for _, a := range allocs {
		if !seen[a.BatchID] {
			seen[a.BatchID] = true
			ids = append(ids, a.BatchID)
		}
	}
	return ids
}

func pairsForBatches(ctx context.Context, tx *sqlx.Tx, batchIDs []string) ([]model.StockPair, error) {
	if len(batchIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT DISTINCT product_id, warehouse_id FROM batches WHERE id IN (?)`, batchIDs)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	var pairs []model.StockPair
	if err := tx.SelectContext(ctx, &pairs, query, args...); err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.DB.GetContext(ctx, &m, `SELECT * FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movement %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &m.Allocations,
		`SELECT * FROM stock_movement_batches WHERE movement_id = $1`, id)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.BatchID != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM stock_movement_batches smb
			WHERE smb.movement_id = stock_movements.id AND smb.batch_id = :batch_id
		)`)
		args["batch_id"] = f.BatchID
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM stock_movement_batches smb
			JOIN batches b ON b.id = smb.batch_id
			WHERE smb.movement_id = stock_movements.id AND b.warehouse_id = :warehouse_id
		)`)
		args["warehouse_id"] = f.WarehouseID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.StockMovement
	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}

	if err := r.attachAllocations(ctx, items); err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *PGRepository) attachAllocations(ctx context.Context, items []model.StockMovement) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	byID := make(map[string]*model.StockMovement, len(items))
	for i := range items {
		ids[i] = items[i].ID
		byID[items[i].ID] = &items[i]
	}

	query, args, err := sqlx.In(
		`SELECT * FROM stock_movement_batches WHERE movement_id IN (?)`, ids)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)

	var allocs []model.MovementAllocation
	if err := r.DB.SelectContext(ctx, &allocs, query, args...); err != nil {
		return err
	}

	for _, a := range allocs {
		if m, ok := byID[a.MovementID]; ok {
			m.Allocations = append(m.Allocations, a)
		}
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) ([]model.StockPair, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var m model.StockMovement
	if err := tx.GetContext(ctx, &m, `SELECT * FROM stock_movements WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movement %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}

	var allocs []model.MovementAllocation
	if err := tx.SelectContext(ctx, &allocs,
		`SELECT * FROM stock_movement_batches WHERE movement_id = $1`, id); err != nil {
		return nil, err
	}

	for _, a := range allocs {
		reverse := m.MovementType.BatchDelta(a.Quantity).Neg()
		if err := reverseBatchDeltaTx(ctx, tx, a.BatchID, reverse); err != nil {
			return nil, err
		}
	}

	pairs, err := pairsForBatches(ctx, tx, allocationBatchIDs(allocs))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM stock_movement_batches WHERE movement_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete allocations: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM stock_movements WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete movement: %w", err)
	}

	for _, pair := range pairs {
		total, err := stockRepoPkg.RecalculateTx(ctx, tx, pair.ProductID, pair.WarehouseID)
		if err != nil {
			return nil, err
		}
		if err := alertRepoPkg.EvaluateStockLevelTx(ctx, tx, pair.ProductID, pair.WarehouseID, total); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// reverseBatchDeltaTx undoes one allocation. A batch that was hard-deleted
// after the movement is skipped; a batch that was consumed in the meantime
// makes the whole deletion irreversible.
func reverseBatchDeltaTx(ctx context.Context, tx *sqlx.Tx, batchID string, delta decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE batches SET quantity = quantity + $1 WHERE id = $2 AND quantity + $1 >= 0`,
		delta, batchID)
	if err != nil {
		return fmt.Errorf("reverse batch delta: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM batches WHERE id = $1)`, batchID); err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return fmt.Errorf("batch %s: %w", batchID, model.ErrIrreversibleDeletion)
	}

	return nil
}
