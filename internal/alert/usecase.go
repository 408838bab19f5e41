package alert

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/alert/dto"
	"github.com/oryxerp/inventory-service/internal/model"
)

type UseCase interface {
	GetAlert(ctx context.Context, id string) (*model.InventoryAlert, error)
	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.InventoryAlert, int, error)

	// Acknowledge is valid only from OPEN; Resolve from OPEN or ACKNOWLEDGED.
	// Both stamp the actor and fail with ErrInvalidAlertTransition otherwise.
	Acknowledge(ctx context.Context, id, actorID string) (*model.InventoryAlert, error)
	Resolve(ctx context.Context, id, actorID string) (*model.InventoryAlert, error)

	// CheckExpiringBatches opens an EXPIRY alert for every pair holding a
	// batch that expires within the next seven days, unless one is already
	// OPEN. Invoked from the scheduled sweep, not from movements.
	CheckExpiringBatches(ctx context.Context) (int, error)
}
