package catalog

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
)

// Repository reads the central product/warehouse catalog. The catalog is
// owned by another service; these lookups are read-only and only feed alert
// message formatting.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error)
}
