package policy

import (
	"context"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/policy/dto"
)

type UseCase interface {
	UpsertPolicy(ctx context.Context, input *dto.UpsertPolicyInput) (*model.ProductReorderPolicy, error)
	GetPolicy(ctx context.Context, id string) (*model.ProductReorderPolicy, error)
	ListPolicies(ctx context.Context, filters *dto.PolicyFilters) ([]model.ProductReorderPolicy, int, error)
	ActivePolicyFor(ctx context.Context, productID, warehouseID string) (*model.ProductReorderPolicy, error)
	DeletePolicy(ctx context.Context, id string) error
}
