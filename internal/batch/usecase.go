package batch

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
)

type UseCase interface {
	CreateBatch(ctx context.Context, input *dto.CreateBatchInput) (*model.Batch, error)
	GetBatch(ctx context.Context, id string) (*model.Batch, error)
	ListBatches(ctx context.Context, filters *dto.BatchFilters) ([]model.Batch, int, error)
	AvailableBatches(ctx context.Context, productID, warehouseID string, method model.RetrievalMethod) ([]model.Batch, error)
	DeleteBatch(ctx context.Context, id string) error
}
