package policy

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/policy/dto"
)

type Repository interface {
	// Upsert writes the policy keyed on (product, warehouse), keeping at most
	// one active policy per pair.
	Upsert(ctx context.Context, p *model.ProductReorderPolicy) error
	FindByID(ctx context.Context, id string) (*model.ProductReorderPolicy, error)
	FindAll(ctx context.Context, filters *dto.PolicyFilters) ([]model.ProductReorderPolicy, int, error)

	// ActiveFor returns nil when the pair has no active policy.
	ActiveFor(ctx context.Context, productID, warehouseID string) (*model.ProductReorderPolicy, error)
	Delete(ctx context.Context, id string) error
}
