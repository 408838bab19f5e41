package batch

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, b *model.Batch) error
	FindByID(ctx context.Context, id string) (*model.Batch, error)
	FindAll(ctx context.Context, filters *dto.BatchFilters) ([]model.Batch, int, error)

	// Available returns batches with positive quantity for the pair, ordered
	// per the retrieval method. FEFO excludes batches without an expiry date.
	Available(ctx context.Context, productID, warehouseID string, method model.RetrievalMethod) ([]model.Batch, error)

	// Delete removes the batch and recomputes the pair's stock row in the
	// same transaction.
	Delete(ctx context.Context, id string) error
}
