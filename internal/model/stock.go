package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockEmpty     StockStatus = "EMPTY"
	StockAlmostOut StockStatus = "ALMOST_OUT"
	StockGood      StockStatus = "GOOD"
	StockFull      StockStatus = "FULL"
)

var (
	almostOutThreshold = decimal.NewFromInt(10)
	goodThreshold      = decimal.NewFromInt(100)
)

// CalculateStockStatus maps a quantity to its qualitative status:
// <=0 EMPTY, <=10 ALMOST_OUT, <=100 GOOD, >100 FULL.
func CalculateStockStatus(quantity decimal.Decimal) StockStatus {
	switch {
	case quantity.LessThanOrEqual(decimal.Zero):
		return StockEmpty
	case quantity.LessThanOrEqual(almostOutThreshold):
		return StockAlmostOut
	case quantity.LessThanOrEqual(goodThreshold):
		return StockGood
	default:
		return StockFull
	}
}

// StockPair identifies one (product, warehouse) aggregation bucket.
type StockPair struct {
	ProductID   string `db:"product_id" json:"product_id"`
	WarehouseID string `db:"warehouse_id" json:"warehouse_id"`
}

// Stock is the denormalized current total for a (product, warehouse) pair,
// derived from batch quantities. A missing row means zero stock.
type Stock struct {
	ID             string          `db:"id" json:"id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	WarehouseID    string          `db:"warehouse_id" json:"warehouse_id"`
	QuantityOnHand decimal.Decimal `db:"quantity_on_hand" json:"quantity_on_hand"`
	Status         StockStatus     `db:"status" json:"status"`
	LastUpdated    time.Time       `db:"last_updated" json:"last_updated"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
