package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertLowStock   AlertType = "LOW_STOCK"
	AlertOutOfStock AlertType = "OUT_OF_STOCK"
	AlertExpiry     AlertType = "EXPIRY"
)

type AlertStatus string

const (
	AlertOpen         AlertStatus = "OPEN"
	AlertAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertResolved     AlertStatus = "RESOLVED"
)

type AlertTrigger string

const (
	TriggerStockMovement  AlertTrigger = "STOCK_MOVEMENT"
	TriggerScheduledCheck AlertTrigger = "SCHEDULED_CHECK"
)

// InventoryAlert records an abnormal stock condition for a (product,
// warehouse) pair. At most one OPEN alert of a given type exists per pair.
type InventoryAlert struct {
	ID              string          `db:"id" json:"id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	WarehouseID     string          `db:"warehouse_id" json:"warehouse_id"`
	ReorderPolicyID *string         `db:"reorder_policy_id" json:"reorder_policy_id"`
	AlertType       AlertType       `db:"alert_type" json:"alert_type"`
	Status          AlertStatus     `db:"status" json:"status"`
	CurrentQuantity decimal.Decimal `db:"current_quantity" json:"current_quantity"`
	TriggeredBy     AlertTrigger    `db:"triggered_by" json:"triggered_by"`
	Message         string          `db:"message" json:"message"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	AcknowledgedAt  *time.Time      `db:"acknowledged_at" json:"acknowledged_at"`
	AcknowledgedBy  *string         `db:"acknowledged_by" json:"acknowledged_by"`
	ResolvedAt      *time.Time      `db:"resolved_at" json:"resolved_at"`
	ResolvedBy      *string         `db:"resolved_by" json:"resolved_by"`
}

// CanAcknowledge reports whether the OPEN -> ACKNOWLEDGED transition is legal.
func (a *InventoryAlert) CanAcknowledge() bool {
	return a.Status == AlertOpen
}

// CanResolve reports whether the alert may move to RESOLVED.
func (a *InventoryAlert) CanResolve() bool {
	return a.Status == AlertOpen || a.Status == AlertAcknowledged
}

// ClassifyStockLevel decides which quantity alert, if any, should be open for
// the given on-hand quantity. A nil policy means only the out-of-stock rule
// applies.
func ClassifyStockLevel(quantity decimal.Decimal, policy *ProductReorderPolicy) (AlertType, bool) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return AlertOutOfStock, true
	}
	if policy != nil && quantity.LessThanOrEqual(policy.MinStockLevel) {
		return AlertLowStock, true
	}
	return "", false
}
