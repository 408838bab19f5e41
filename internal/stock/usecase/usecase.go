package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/stock"
	"github.com/oryxerp/inventory-service/internal/stock/dto"
	"github.com/oryxerp/inventory-service/pkg/cache"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const stockCacheTTL = 2 * time.Minute

type stockUseCase struct {
	repo   stock.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, cache *cache.RedisClient, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// StockCacheKey is shared with the movement and batch usecases, which
// invalidate it after every mutation touching the pair.
func StockCacheKey(productID, warehouseID string) string {
	return fmt.Sprintf("stock:%s:%s", productID, warehouseID)
}

func (uc *stockUseCase) GetStock(ctx context.Context, productID, warehouseID string) (*model.Stock, error) {
	key := StockCacheKey(productID, warehouseID)

	if uc.cache != nil {
		var cached model.Stock
		hit, err := uc.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("stock cache read failed", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	s, err := uc.repo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	if s != nil && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, s, stockCacheTTL); err != nil {
			uc.logger.Warn("stock cache write failed", zap.Error(err))
		}
	}

	return s, nil
}

func (uc *stockUseCase) ListStocks(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *stockUseCase) Recalculate(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	total, err := uc.repo.Recalculate(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, StockCacheKey(productID, warehouseID)); err != nil {
			uc.logger.Warn("stock cache invalidation failed", zap.Error(err))
		}
	}

	return total, nil
}
