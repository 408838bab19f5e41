package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oryxerp/inventory-service/internal/batch"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
	"github.com/oryxerp/inventory-service/internal/policy"
	stockUCPkg "github.com/oryxerp/inventory-service/internal/stock/usecase"
	"github.com/oryxerp/inventory-service/pkg/cache"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type movementUseCase struct {
	repo    movement.Repository
	batches batch.Repository
	policy  policy.Repository
	cache   *cache.RedisClient
	logger  logger.ZapLogger
}

func NewMovementUseCase(
	repo movement.Repository,
	batches batch.Repository,
	pol policy.Repository,
	cache *cache.RedisClient,
	log logger.ZapLogger,
) movement.UseCase {
	return &movementUseCase{
		repo:    repo,
		batches: batches,
		policy:  pol,
		cache:   cache,
		logger:  log,
	}
}

func (uc *movementUseCase) RecordMovement(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error) {
	kind := model.MovementType(input.MovementType)
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown movement type %q", input.MovementType)
	}
	if len(input.Allocations) == 0 {
		return nil, fmt.Errorf("movement needs at least one allocation: %w", model.ErrAllocationMismatch)
	}

	allocs := make([]model.MovementAllocation, len(input.Allocations))
	for i, in := range input.Allocations {
		allocs[i] = model.MovementAllocation{
			ID:       uuid.New().String(),
			BatchID:  in.BatchID,
			Quantity: in.Quantity,
		}
	}

	if !model.AllocationTotal(allocs).Equal(input.TotalQuantity) {
		return nil, fmt.Errorf("allocations sum to %s, movement declares %s: %w",
			model.AllocationTotal(allocs), input.TotalQuantity, model.ErrAllocationMismatch)
	}

	if err := uc.validateAllocations(ctx, kind, allocs); err != nil {
		return nil, err
	}

	m := uc.buildMovement(kind, input.TotalQuantity, input.ReferenceNumber, input.Notes, input.ActorID)
	m.Allocations = allocs

	pairs, err := uc.repo.Record(ctx, m)
	if err != nil {
		return nil, err
	}

	uc.invalidateStockCachePairs(ctx, pairs)

	uc.logger.Info("movement recorded",
		zap.String("movement_id", m.ID),
		zap.String("movement_type", string(m.MovementType)),
		zap.String("total_quantity", m.TotalQuantity.String()),
		zap.Int("allocations", len(m.Allocations)),
	)

	return m, nil
}

func (uc *movementUseCase) RecordMovementWithPolicy(ctx context.Context, input *dto.PolicyMovementInput) (*model.StockMovement, error) {
	kind := model.MovementType(input.MovementType)
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown movement type %q", input.MovementType)
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("policy-driven movement quantity must be positive, got %s", input.Quantity)
	}

	if uc.cache != nil {
		release, err := uc.acquireAllocationLock(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	// No active policy is not an error; allocation falls back to FIFO.
	method := model.RetrievalFIFO
	pol, err := uc.policy.ActiveFor(ctx, input.ProductID, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if pol != nil {
		method = pol.RetrievalMethod
	}

	batches, err := uc.batches.Available(ctx, input.ProductID, input.WarehouseID, method)
	if err != nil {
		return nil, err
	}

	allocs, err := BuildAllocations(batches, input.Quantity)
	if err != nil {
		return nil, err
	}

	m := uc.buildMovement(kind, input.Quantity, input.ReferenceNumber, input.Notes, input.ActorID)
	m.Allocations = allocs

	pairs, err := uc.repo.Record(ctx, m)
	if err != nil {
		return nil, err
	}

	uc.invalidateStockCachePairs(ctx, pairs)

	uc.logger.Info("policy-driven movement recorded",
		zap.String("movement_id", m.ID),
		zap.String("movement_type", string(m.MovementType)),
		zap.String("product_id", input.ProductID),
		zap.String("warehouse_id", input.WarehouseID),
		zap.String("retrieval_method", string(method)),
		zap.Int("allocations", len(m.Allocations)),
	)

	return m, nil
}

// BuildAllocations greedily takes min(batch remaining, still needed) from the
// ordered batch list. When the batches cannot cover the requested total it
// fails with ErrInsufficientStock and nothing is allocated.
func BuildAllocations(batches []model.Batch, total decimal.Decimal) ([]model.MovementAllocation, error) {
	available := decimal.Zero
	for _, b := range batches {
		available = available.Add(b.Quantity)
	}
	if available.LessThan(total) {
		return nil, fmt.Errorf("available %s, required %s: %w", available, total, model.ErrInsufficientStock)
	}

	var allocs []model.MovementAllocation
	remaining := total
	for _, b := range batches {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		allocs = append(allocs, model.MovementAllocation{
			ID:       uuid.New().String(),
			BatchID:  b.ID,
			Quantity: take,
		})
		remaining = remaining.Sub(take)
	}

	return allocs, nil
}

func (uc *movementUseCase) GetMovement(ctx context.Context, id string) (*model.StockMovement, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *movementUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *movementUseCase) DeleteMovement(ctx context.Context, id string) error {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	pairs, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	uc.invalidateStockCachePairs(ctx, pairs)

	uc.logger.Info("movement deleted",
		zap.String("movement_id", id),
		zap.String("movement_type", string(m.MovementType)),
	)

	return nil
}

func (uc *movementUseCase) buildMovement(kind model.MovementType, total decimal.Decimal, reference, notes, actorID string) *model.StockMovement {
	m := &model.StockMovement{
		ID:            uuid.New().String(),
		MovementType:  kind,
		TotalQuantity: total,
		CreatedAt:     time.Now(),
	}
	if reference != "" {
		m.ReferenceNumber = &reference
	}
	if notes != "" {
		m.Notes = &notes
	}
	if actorID != "" {
		m.CreatedBy = &actorID
	}
	return m
}

// validateAllocations applies the per-kind feasibility rules before anything
// touches the database. The in-transaction guard remains the authority under
// concurrency; this pass exists to fail fast with the batch involved.
func (uc *movementUseCase) validateAllocations(ctx context.Context, kind model.MovementType, allocs []model.MovementAllocation) error {
	for _, a := range allocs {
		switch kind {
		case model.MovementOut, model.MovementReturn:
			if a.Quantity.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("allocation for batch %s must be positive, got %s: %w",
					a.BatchID, a.Quantity, model.ErrAllocationMismatch)
			}
			b, err := uc.batches.FindByID(ctx, a.BatchID)
			if err != nil {
				return err
			}
			if a.Quantity.GreaterThan(b.Quantity) {
				return fmt.Errorf("allocation %s exceeds batch %s remaining %s: %w",
					a.Quantity, b.BatchNumber, b.Quantity, model.ErrInsufficientQuantity)
			}
		case model.MovementIn:
			if a.Quantity.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("allocation for batch %s must be positive, got %s: %w",
					a.BatchID, a.Quantity, model.ErrAllocationMismatch)
			}
		case model.MovementAdjustment:
			// Signed: positive adds to the batch, negative corrects downward.
			if a.Quantity.IsZero() {
				return fmt.Errorf("zero adjustment for batch %s: %w", a.BatchID, model.ErrAllocationMismatch)
			}
		}
	}
	return nil
}

func (uc *movementUseCase) acquireAllocationLock(ctx context.Context, productID, warehouseID string) (func(), error) {
	lockKey := fmt.Sprintf("lock:inventory:%s:%s", productID, warehouseID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire allocation lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	if !acquired {
		return nil, errors.New("system busy, please try again later (lock)")
	}

	return func() {
		if err := uc.cache.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release allocation lock", zap.Error(err))
		}
	}, nil
}

func (uc *movementUseCase) invalidateStockCache(ctx context.Context, productID, warehouseID string) {
	if uc.cache == nil {
		return
	}
	key := stockUCPkg.StockCacheKey(productID, warehouseID)
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn("stock cache invalidation failed", zap.Error(err))
	}
}

// invalidateStockCachePairs drops the cached totals for the pairs the
// repository reports back from its transaction, so no extra batch lookups
// are needed to find them.
func (uc *movementUseCase) invalidateStockCachePairs(ctx context.Context, pairs []model.StockPair) {
	if uc.cache == nil {
		return
	}
	for _, p := range pairs {
		uc.invalidateStockCache(ctx, p.ProductID, p.WarehouseID)
	}
}
