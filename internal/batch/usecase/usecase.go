package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oryxerp/inventory-service/internal/batch"
	"github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
	stockUCPkg "github.com/oryxerp/inventory-service/internal/stock/usecase"
	"github.com/oryxerp/inventory-service/pkg/cache"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type batchUseCase struct {
	repo   batch.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewBatchUseCase(repo batch.Repository, cache *cache.RedisClient, log logger.ZapLogger) batch.UseCase {
	return &batchUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *batchUseCase) CreateBatch(ctx context.Context, input *dto.CreateBatchInput) (*model.Batch, error) {
	if input.Quantity.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("batch quantity %s: %w", input.Quantity, model.ErrInsufficientQuantity)
	}

	batchNumber := input.BatchNumber
	if batchNumber == "" {
		batchNumber = model.NewBatchNumber()
	}

	b := &model.Batch{
		ID:              uuid.New().String(),
		ProductID:       input.ProductID,
		WarehouseID:     input.WarehouseID,
		BatchNumber:     batchNumber,
		Quantity:        input.Quantity,
		ManufactureDate: input.ManufactureDate,
		ExpiryDate:      input.ExpiryDate,
		CreatedAt:       time.Now(),
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	uc.invalidateStockCache(ctx, b.ProductID, b.WarehouseID)

	uc.logger.Info("batch received",
		zap.String("batch_id", b.ID),
		zap.String("batch_number", b.BatchNumber),
		zap.String("product_id", b.ProductID),
		zap.String("warehouse_id", b.WarehouseID),
		zap.String("quantity", b.Quantity.String()),
	)

	return b, nil
}

func (uc *batchUseCase) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *batchUseCase) ListBatches(ctx context.Context, filters *dto.BatchFilters) ([]model.Batch, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *batchUseCase) AvailableBatches(ctx context.Context, productID, warehouseID string, method model.RetrievalMethod) ([]model.Batch, error) {
	if !method.Valid() {
		method = model.RetrievalFIFO
	}
	return uc.repo.Available(ctx, productID, warehouseID, method)
}

func (uc *batchUseCase) DeleteBatch(ctx context.Context, id string) error {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateStockCache(ctx, b.ProductID, b.WarehouseID)

	uc.logger.Info("batch deleted",
		zap.String("batch_id", id),
		zap.String("product_id", b.ProductID),
		zap.String("warehouse_id", b.WarehouseID),
	)

	return nil
}

func (uc *batchUseCase) invalidateStockCache(ctx context.Context, productID, warehouseID string) {
	if uc.cache == nil {
		return
	}
	key := stockUCPkg.StockCacheKey(productID, warehouseID)
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn("stock cache invalidation failed", zap.Error(err))
	}
}
