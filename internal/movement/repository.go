package movement

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
)

type Repository interface {
	// Record commits the movement, its allocations, the guarded batch deltas,
	// the stock recompute and the alert evaluation in one transaction. A
	// delta that would drive a batch negative aborts the whole transaction
	// with ErrInsufficientQuantity. The returned pairs are the distinct
	// (product, warehouse) buckets the movement touched.
	Record(ctx context.Context, m *model.StockMovement) ([]model.StockPair, error)

	FindByID(ctx context.Context, id string) (*model.StockMovement, error)
	FindAll(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Delete reverses every allocation against its batch, removes the
	// movement and recomputes the affected pairs, in one transaction. A
	// reversal that would drive a batch negative fails with
	// ErrIrreversibleDeletion; a batch that no longer exists is skipped.
	// Pairs are reported the same way Record reports them.
	Delete(ctx context.Context, id string) ([]model.StockPair, error)
}
