package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	batchDTO "github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
	policyDTO "github.com/oryxerp/inventory-service/internal/policy/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
)

type MockMovementRepo struct{ mock.Mock }

func (m *MockMovementRepo) Record(ctx context.Context, mv *model.StockMovement) ([]model.StockPair, error) {
	args := m.Called(ctx, mv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockPair), args.Error(1)
}

func (m *MockMovementRepo) FindByID(ctx context.Context, id string) (*model.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockMovement), args.Error(1)
}

func (m *MockMovementRepo) FindAll(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.StockMovement), args.Int(1), args.Error(2)
}

func (m *MockMovementRepo) Delete(ctx context.Context, id string) ([]model.StockPair, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockPair), args.Error(1)
}

type MockBatchRepo struct{ mock.Mock }

func (m *MockBatchRepo) Create(ctx context.Context, b *model.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepo) FindByID(ctx context.Context, id string) (*model.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Batch), args.Error(1)
}

func (m *MockBatchRepo) FindAll(ctx context.Context, filters *batchDTO.BatchFilters) ([]model.Batch, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Batch), args.Int(1), args.Error(2)
}

func (m *MockBatchRepo) Available(ctx context.Context, productID, warehouseID string, method model.RetrievalMethod) ([]model.Batch, error) {
	args := m.Called(ctx, productID, warehouseID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Batch), args.Error(1)
}

func (m *MockBatchRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPolicyRepo struct{ mock.Mock }

func (m *MockPolicyRepo) Upsert(ctx context.Context, p *model.ProductReorderPolicy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPolicyRepo) FindByID(ctx context.Context, id string) (*model.ProductReorderPolicy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductReorderPolicy), args.Error(1)
}

func (m *MockPolicyRepo) FindAll(ctx context.Context, filters *policyDTO.PolicyFilters) ([]model.ProductReorderPolicy, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.ProductReorderPolicy), args.Int(1), args.Error(2)
}

func (m *MockPolicyRepo) ActiveFor(ctx context.Context, productID, warehouseID string) (*model.ProductReorderPolicy, error) {
	args := m.Called(ctx, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductReorderPolicy), args.Error(1)
}

func (m *MockPolicyRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console", IsDevelopment: true})
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Two lots of the same product: 30 units received first, 20 received later.
func twoBatches() []model.Batch {
	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	return []model.Batch{
		{ID: "batch-old", ProductID: "p1", WarehouseID: "w1", BatchNumber: "A1B2C3D4", Quantity: qty("30"), CreatedAt: older},
		{ID: "batch-new", ProductID: "p1", WarehouseID: "w1", BatchNumber: "E5F6A7B8", Quantity: qty("20"), CreatedAt: newer},
	}
}

func TestBuildAllocations(t *testing.T) {
	t.Run("spans batches in given order", func(t *testing.T) {
		allocs, err := BuildAllocations(twoBatches(), qty("40"))
		assert.NoError(t, err)
		assert.Len(t, allocs, 2)
		assert.Equal(t, "batch-old", allocs[0].BatchID)
		assert.True(t, allocs[0].Quantity.Equal(qty("30")))
		assert.Equal(t, "batch-new", allocs[1].BatchID)
		assert.True(t, allocs[1].Quantity.Equal(qty("10")))
	})

	t.Run("single batch covers the request", func(t *testing.T) {
		allocs, err := BuildAllocations(twoBatches(), qty("25"))
		assert.NoError(t, err)
		assert.Len(t, allocs, 1)
		assert.Equal(t, "batch-old", allocs[0].BatchID)
		assert.True(t, allocs[0].Quantity.Equal(qty("25")))
	})

	t.Run("exact total drains everything", func(t *testing.T) {
		allocs, err := BuildAllocations(twoBatches(), qty("50"))
		assert.NoError(t, err)
		assert.Len(t, allocs, 2)
		assert.True(t, model.AllocationTotal(allocs).Equal(qty("50")))
	})

	t.Run("insufficient stock allocates nothing", func(t *testing.T) {
		allocs, err := BuildAllocations(twoBatches(), qty("1000"))
		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		assert.Nil(t, allocs)
	})

	t.Run("no batches at all", func(t *testing.T) {
		_, err := BuildAllocations(nil, qty("1"))
		assert.ErrorIs(t, err, model.ErrInsufficientStock)
	})
}

func TestRecordMovementWithPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("uses policy retrieval method", func(t *testing.T) {
		movRepo := new(MockMovementRepo)
		batchRepo := new(MockBatchRepo)
		policyRepo := new(MockPolicyRepo)

		policyRepo.On("ActiveFor", ctx, "p1", "w1").Return(&model.ProductReorderPolicy{
			RetrievalMethod: model.RetrievalLIFO,
		}, nil)
		// LIFO order: the repository returns newest first.
		batches := twoBatches()
		batchRepo.On("Available", ctx, "p1", "w1", model.RetrievalLIFO).
			Return([]model.Batch{batches[1], batches[0]}, nil)
		movRepo.On("Record", ctx, mock.AnythingOfType("*model.StockMovement")).
			Return([]model.StockPair{{ProductID: "p1", WarehouseID: "w1"}}, nil)

		uc := NewMovementUseCase(movRepo, batchRepo, policyRepo, nil, testLogger())
		m, err := uc.RecordMovementWithPolicy(ctx, &dto.PolicyMovementInput{
			ProductID:    "p1",
			WarehouseID:  "w1",
			MovementType: "OUT",
			Quantity:     qty("40"),
		})

		assert.NoError(t, err)
		assert.Len(t, m.Allocations, 2)
		assert.Equal(t, "batch-new", m.Allocations[0].BatchID)
		assert.True(t, m.Allocations[0].Quantity.Equal(qty("20")))
		assert.Equal(t, "batch-old", m.Allocations[1].BatchID)
		assert.True(t, m.Allocations[1].Quantity.Equal(qty("20")))
		movRepo.AssertExpectations(t)
	})

	t.Run("falls back to FIFO without policy", func(t *testing.T) {
		movRepo := new(MockMovementRepo)
		batchRepo := new(MockBatchRepo)
		policyRepo := new(MockPolicyRepo)

		policyRepo.On("ActiveFor", ctx, "p1", "w1").Return(nil, nil)
		batchRepo.On("Available", ctx, "p1", "w1", model.RetrievalFIFO).Return(twoBatches(), nil)
		movRepo.On("Record", ctx, mock.AnythingOfType("*model.StockMovement")).
			Return([]model.StockPair{{ProductID: "p1", WarehouseID: "w1"}}, nil)

		uc := NewMovementUseCase(movRepo, batchRepo, policyRepo, nil, testLogger())
		m, err := uc.RecordMovementWithPolicy(ctx, &dto.PolicyMovementInput{
			ProductID:    "p1",
			WarehouseID:  "w1",
			MovementType: "OUT",
			Quantity:     qty("40"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "batch-old", m.Allocations[0].BatchID)
		assert.True(t, m.Allocations[0].Quantity.Equal(qty("30")))
	})

	t.Run("insufficient stock records nothing", func(t *testing.T) {
		movRepo := new(MockMovementRepo)
		batchRepo := new(MockBatchRepo)
		policyRepo := new(MockPolicyRepo)

		policyRepo.On("ActiveFor", ctx, "p1", "w1").Return(nil, nil)
		batchRepo.On("Available", ctx, "p1", "w1", model.RetrievalFIFO).Return(twoBatches(), nil)

		uc := NewMovementUseCase(movRepo, batchRepo, policyRepo, nil, testLogger())
		_, err := uc.RecordMovementWithPolicy(ctx, &dto.PolicyMovementInput{
			ProductID:    "p1",
			WarehouseID:  "w1",
			MovementType: "OUT",
			Quantity:     qty("1000"),
		})

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		movRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		uc := NewMovementUseCase(new(MockMovementRepo), new(MockBatchRepo), new(MockPolicyRepo), nil, testLogger())
		_, err := uc.RecordMovementWithPolicy(ctx, &dto.PolicyMovementInput{
			ProductID:    "p1",
			WarehouseID:  "w1",
			MovementType: "OUT",
			Quantity:     qty("0"),
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown movement type", func(t *testing.T) {
		uc := NewMovementUseCase(new(MockMovementRepo), new(MockBatchRepo), new(MockPolicyRepo), nil, testLogger())
		_, err := uc.RecordMovementWithPolicy(ctx, &dto.PolicyMovementInput{
			ProductID:    "p1",
			WarehouseID:  "w1",
			MovementType: "TRANSFER",
			Quantity:     qty("5"),
		})
		assert.Error(t, err)
	})
}

func TestRecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path OUT", func(t *testing.T) {
		movRepo := new(MockMovementRepo)
		batchRepo := new(MockBatchRepo)
		batches := twoBatches()

		batchRepo.On("FindByID", ctx, "batch-old").Return(&batches[0], nil)
		movRepo.On("Record", ctx, mock.AnythingOfType("*model.StockMovement")).
			Return([]model.StockPair{{ProductID: "p1", WarehouseID: "w1"}}, nil)

		uc := NewMovementUseCase(movRepo, batchRepo, new(MockPolicyRepo), nil, testLogger())
		m, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			MovementType:  "OUT",
			TotalQuantity: qty("10"),
			Allocations:   []dto.AllocationInput{{BatchID: "batch-old", Quantity: qty("10")}},
			ActorID:       "user-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.MovementOut, m.MovementType)
		assert.Equal(t, "user-1", *m.CreatedBy)
		movRepo.AssertExpectations(t)
	})

	t.Run("allocation total must match declared total", func(t *testing.T) {
		uc := NewMovementUseCase(new(MockMovementRepo), new(MockBatchRepo), new(MockPolicyRepo), nil, testLogger())
		_, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			MovementType:  "IN",
			TotalQuantity: qty("50"),
			Allocations: []dto.AllocationInput{
				{BatchID: "b1", Quantity: qty("20")},
				{BatchID: "b2", Quantity: qty("20")},
			},
		})
		assert.ErrorIs(t, err, model.ErrAllocationMismatch)
	})

	t.Run("empty allocations rejected", func(t *testing.T) {
		uc := NewMovementUseCase(new(MockMovementRepo), new(MockBatchRepo), new(MockPolicyRepo), nil, testLogger())
		_, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			MovementType:  "IN",
			TotalQuantity: qty("50"),
		})
		assert.ErrorIs(t, err, model.ErrAllocationMismatch)
	})

	t.Run("OUT exceeding batch remaining fails fast", func(t *testing.T) {
		movRepo := new(MockMovementRepo)
		batchRepo := new(MockBatchRepo)
		batches := twoBatches()

		batchRepo.On("FindByID", ctx, "batch-new").Return(&batches[1], nil)

		uc := NewMovementUseCase(movRepo, batchRepo, new(MockPolicyRepo), nil, testLogger())
		_, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			MovementType:  "OUT",
			TotalQuantity: qty("25"),
			Allocations:   []dto.AllocationInput{{BatchID: "batch-new", Quantity: qty("25")}},
		})

		assert.ErrorIs(t, err, model.ErrInsufficientQuantity)
		movRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("negative adjustment accepted", func(t *testing.T) {
		movRepo := new(MockMovementRepo)
		movRepo.On("Record", ctx, mock.AnythingOfType("*model.StockMovement")).
			Return([]model.StockPair{{ProductID: "p1", WarehouseID: "w1"}}, nil)

		uc := NewMovementUseCase(movRepo, new(MockBatchRepo), new(MockPolicyRepo), nil, testLogger())
		m, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			MovementType:  "ADJUSTMENT",
			TotalQuantity: qty("-5"),
			Allocations:   []dto.AllocationInput{{BatchID: "batch-old", Quantity: qty("-5")}},
			Notes:         "shrinkage after stocktake",
		})

		assert.NoError(t, err)
		assert.True(t, m.TotalQuantity.Equal(qty("-5")))
	})

	t.Run("zero adjustment rejected", func(t *testing.T) {
		uc := NewMovementUseCase(new(MockMovementRepo), new(MockBatchRepo), new(MockPolicyRepo), nil, testLogger())
		_, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			MovementType:  "ADJUSTMENT",
			TotalQuantity: qty("0"),
			Allocations:   []dto.AllocationInput{{BatchID: "batch-old", Quantity: qty("0")}},
		})
		assert.ErrorIs(t, err, model.ErrAllocationMismatch)
	})
}

func TestDeleteMovement(t *testing.T) {
	ctx := context.Background()

	movRepo := new(MockMovementRepo)
	batchRepo := new(MockBatchRepo)
	m := &model.StockMovement{
		ID:           "m1",
		MovementType: model.MovementOut,
		Allocations: []model.MovementAllocation{
			{ID: "a1", MovementID: "m1", BatchID: "batch-old", Quantity: qty("10")},
		},
	}
	movRepo.On("FindByID", ctx, "m1").Return(m, nil)
	movRepo.On("Delete", ctx, "m1").
		Return([]model.StockPair{{ProductID: "p1", WarehouseID: "w1"}}, nil)

	uc := NewMovementUseCase(movRepo, batchRepo, new(MockPolicyRepo), nil, testLogger())
	assert.NoError(t, uc.DeleteMovement(ctx, "m1"))
	movRepo.AssertExpectations(t)

	// The repository already reports the touched pairs; the use case must
	// not go back to the batch table to rediscover them.
	batchRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
