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
	"github.com/oryxerp/inventory-service/internal/alert/dto"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.InventoryAlert, error) {
	var a model.InventoryAlert
	err := r.DB.GetContext(ctx, &a, `SELECT * FROM inventory_alerts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("alert %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AlertFilters) ([]model.InventoryAlert, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.AlertType != "" {
		conditions = append(conditions, "alert_type = :alert_type")
		args["alert_type"] = f.AlertType
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM inventory_alerts" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_alerts" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.InventoryAlert
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Create(ctx context.Context, a *model.InventoryAlert) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO inventory_alerts (
			id, product_id, warehouse_id, reorder_policy_id,
			alert_type, status, current_quantity, triggered_by, message,
			created_at, acknowledged_at, acknowledged_by, resolved_at, resolved_by
		)
		VALUES (
			:id, :product_id, :warehouse_id, :reorder_policy_id,
			:alert_type, :status, :current_quantity, :triggered_by, :message,
			:created_at, :acknowledged_at, :acknowledged_by, :resolved_at, :resolved_by
		)`, a)
	return err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, a *model.InventoryAlert) error {
	_, err := r.DB.NamedExecContext(ctx, `
		UPDATE inventory_alerts SET
			status = :status,
			acknowledged_at = :acknowledged_at,
			acknowledged_by = :acknowledged_by,
			resolved_at = :resolved_at,
			resolved_by = :resolved_by
		WHERE id = :id`, a)
	return err
}

func (r *PGRepository) HasOpenAlert(ctx context.Context, productID, warehouseID string, alertType model.AlertType) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM inventory_alerts
			WHERE product_id = $1 AND warehouse_id = $2 AND alert_type = $3 AND status = 'OPEN'
		)`, productID, warehouseID, alertType)
	return exists, err
}

func (r *PGRepository) ExpiringBatches(ctx context.Context, window time.Duration) ([]model.Batch, error) {
	var items []model.Batch
	err := r.DB.SelectContext(ctx, &items, `
		SELECT * FROM batches
		WHERE quantity > 0
		  AND expiry_date IS NOT NULL
		  AND expiry_date >= CURRENT_DATE
		  AND expiry_date <= CURRENT_DATE + $1::interval
		ORDER BY expiry_date ASC`,
		fmt.Sprintf("%d days", int(window.Hours()/24)))
	return items, err
}

// EvaluateStockLevelTx runs the alert engine for one (product, warehouse)
// pair inside the caller's transaction, right after the stock recompute. A
// zero-or-below quantity opens OUT_OF_STOCK, a quantity at or below the
// active policy's minimum opens LOW_STOCK, and a healthy quantity resolves
// both kinds. EXPIRY alerts are never touched here. The existing-OPEN check
// keeps the one-open-alert-per-kind invariant.
func EvaluateStockLevelTx(ctx context.Context, tx *sqlx.Tx, productID, warehouseID string, quantity decimal.Decimal) error {
	var policy *model.ProductReorderPolicy
	var p model.ProductReorderPolicy
	err := tx.GetContext(ctx, &p, `
		SELECT * FROM product_reorder_policies
		WHERE product_id = $1 AND warehouse_id = $2 AND is_active = true`,
		productID, warehouseID)
	if err == nil {
		policy = &p
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load policy: %w", err)
	}

	alertType, triggered := model.ClassifyStockLevel(quantity, policy)

	if !triggered {
		// Stock recovered: close the quantity alerts for the pair.
		_, err := tx.ExecContext(ctx, `
			UPDATE inventory_alerts
			SET status = 'RESOLVED', resolved_at = $3
			WHERE product_id = $1 AND warehouse_id = $2
			  AND status IN ('OPEN', 'ACKNOWLEDGED')
			  AND alert_type IN ('LOW_STOCK', 'OUT_OF_STOCK')`,
			productID, warehouseID, time.Now())
		if err != nil {
			return fmt.Errorf("auto-resolve alerts: %w", err)
		}
		return nil
	}

	var exists bool
	err = tx.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM inventory_alerts
			WHERE product_id = $1 AND warehouse_id = $2 AND alert_type = $3 AND status = 'OPEN'
		)`, productID, warehouseID, alertType)
	if err != nil {
		return fmt.Errorf("check open alert: %w", err)
	}
	if exists {
		return nil
	}

	message := stockLevelMessage(ctx, tx, productID, warehouseID, alertType, quantity, policy)

	var policyID *string
	if policy != nil {
		policyID = &policy.ID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_alerts (
			id, product_id, warehouse_id, reorder_policy_id,
			alert_type, status, current_quantity, triggered_by, message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, 'OPEN', $6, $7, $8, $9)`,
		uuid.New().String(), productID, warehouseID, policyID,
		alertType, quantity, model.TriggerStockMovement, message, time.Now())
	if err != nil {
		return fmt.Errorf("open alert: %w", err)
	}

	return nil
}

func stockLevelMessage(ctx context.Context, tx *sqlx.Tx, productID, warehouseID string, alertType model.AlertType, quantity decimal.Decimal, policy *model.ProductReorderPolicy) string {
	// Catalog rows live in another service's tables; fall back to raw ids if
	// the reference is missing rather than failing the movement.
	productName, unit := productID, ""
	var prod model.Product
	if err := tx.GetContext(ctx, &prod,
		`SELECT id, sku, name, unit_of_measure FROM products WHERE id = $1`, productID); err == nil {
		productName, unit = prod.Name, prod.UnitOfMeasure
	}

	warehouseName := warehouseID
	var wh model.Warehouse
	if err := tx.GetContext(ctx, &wh,
		`SELECT id, name FROM warehouses WHERE id = $1`, warehouseID); err == nil {
		warehouseName = wh.Name
	}

	if alertType == model.AlertOutOfStock {
		return fmt.Sprintf("%s is out of stock in %s", productName, warehouseName)
	}
	return fmt.Sprintf("%s in %s has reached minimum stock level (%s%s <= %s%s)",
		productName, warehouseName, quantity, unit, policy.MinStockLevel, unit)
}
