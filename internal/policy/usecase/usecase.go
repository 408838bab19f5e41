package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/policy"
	"github.com/oryxerp/inventory-service/internal/policy/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type policyUseCase struct {
	repo   policy.Repository
	logger logger.ZapLogger
}

func NewPolicyUseCase(repo policy.Repository, log logger.ZapLogger) policy.UseCase {
	return &policyUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *policyUseCase) UpsertPolicy(ctx context.Context, input *dto.UpsertPolicyInput) (*model.ProductReorderPolicy, error) {
	method := model.RetrievalMethod(input.RetrievalMethod)
	if input.RetrievalMethod == "" {
		method = model.RetrievalFIFO
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown retrieval method %q", input.RetrievalMethod)
	}

	now := time.Now()
	var actor *string
	if input.ActorID != "" {
		actor = &input.ActorID
	}

	p := &model.ProductReorderPolicy{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProductID:       input.ProductID,
		WarehouseID:     input.WarehouseID,
		MinStockLevel:   input.MinStockLevel,
		ReorderQuantity: input.ReorderQuantity,
		LeadTimeDays:    input.LeadTimeDays,
		SafetyStock:     input.SafetyStock,
		RetrievalMethod: method,
		IsActive:        input.IsActive,
		CreatedBy:       actor,
		UpdatedBy:       actor,
	}

	if err := uc.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("reorder policy upserted",
		zap.String("product_id", p.ProductID),
		zap.String("warehouse_id", p.WarehouseID),
		zap.String("retrieval_method", string(p.RetrievalMethod)),
		zap.Bool("is_active", p.IsActive),
	)

	return p, nil
}

func (uc *policyUseCase) GetPolicy(ctx context.Context, id string) (*model.ProductReorderPolicy, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *policyUseCase) ListPolicies(ctx context.Context, filters *dto.PolicyFilters) ([]model.ProductReorderPolicy, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *policyUseCase) ActivePolicyFor(ctx context.Context, productID, warehouseID string) (*model.ProductReorderPolicy, error) {
	return uc.repo.ActiveFor(ctx, productID, warehouseID)
}

func (uc *policyUseCase) DeletePolicy(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
