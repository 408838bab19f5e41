package stock

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/stock/dto"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	// GetStock returns nil when the pair holds no stock.
	GetStock(ctx context.Context, productID, warehouseID string) (*model.Stock, error)
	ListStocks(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error)
	Recalculate(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}
