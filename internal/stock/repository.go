package stock

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/stock/dto"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Get returns nil when no row exists; absence means zero stock.
	Get(ctx context.Context, productID, warehouseID string) (*model.Stock, error)
	FindAll(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error)

	// Recalculate recomputes the pair's total from batches and upserts or
	// deletes the stock row accordingly. Idempotent.
	Recalculate(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}
