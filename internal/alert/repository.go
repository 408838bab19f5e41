package alert

import (
	"context"
	"time"

	"github.com/oryxerp/inventory-service/internal/alert/dto"
	"github.com/oryxerp/inventory-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.InventoryAlert, error)
	FindAll(ctx context.Context, filters *dto.AlertFilters) ([]model.InventoryAlert, int, error)
	Create(ctx context.Context, a *model.InventoryAlert) error

	// UpdateStatus persists a manual OPEN->ACKNOWLEDGED or ->RESOLVED
	// transition with its actor/timestamp stamps.
	UpdateStatus(ctx context.Context, a *model.InventoryAlert) error

	HasOpenAlert(ctx context.Context, productID, warehouseID string, alertType model.AlertType) (bool, error)

	// ExpiringBatches returns batches with positive quantity whose expiry
	// date falls between today and today+window, bounds inclusive.
	ExpiringBatches(ctx context.Context, window time.Duration) ([]model.Batch, error)
}
