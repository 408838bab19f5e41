package model

import (
	"github.com/shopspring/decimal"
)

// ProductReorderPolicy is per (product, warehouse) reorder configuration. At
// most one active policy exists per pair; it is read-only input to the
// movement recorder (retrieval method) and the alert engine (min level).
type ProductReorderPolicy struct {
	BaseModel
	ProductID       string          `db:"product_id" json:"product_id"`
	WarehouseID     string          `db:"warehouse_id" json:"warehouse_id"`
	MinStockLevel   decimal.Decimal `db:"min_stock_level" json:"min_stock_level"`
	ReorderQuantity decimal.Decimal `db:"reorder_quantity" json:"reorder_quantity"`
	LeadTimeDays    int             `db:"lead_time_days" json:"lead_time_days"`
	SafetyStock     decimal.Decimal `db:"safety_stock" json:"safety_stock"`
	RetrievalMethod RetrievalMethod `db:"retrieval_method" json:"retrieval_method"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	CreatedBy       *string         `db:"created_by" json:"created_by"`
	UpdatedBy       *string         `db:"updated_by" json:"updated_by"`
}
