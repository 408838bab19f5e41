package movement

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
)

type UseCase interface {
	// RecordMovement records a manual multi-batch movement with
	// caller-supplied allocations.
	RecordMovement(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error)

	// RecordMovementWithPolicy derives the allocations from the pair's
	// active retrieval policy (FIFO when none exists) and commits the
	// movement all-or-nothing.
	RecordMovementWithPolicy(ctx context.Context, input *dto.PolicyMovementInput) (*model.StockMovement, error)

	GetMovement(ctx context.Context, id string) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	DeleteMovement(ctx context.Context, id string) error
}
