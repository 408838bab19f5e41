package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/pkg/logger"
)

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

func (m *MockBatchRepo) FindAll(ctx context.Context, filters *dto.BatchFilters) ([]model.Batch, int, error) {
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

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console", IsDevelopment: true})
}

func TestCreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("generates batch number when omitted", func(t *testing.T) {
		repo := new(MockBatchRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Batch")).Return(nil)

		uc := NewBatchUseCase(repo, nil, testLogger())
		b, err := uc.CreateBatch(ctx, &dto.CreateBatchInput{
			ProductID:   "p1",
			WarehouseID: "w1",
			Quantity:    decimal.NewFromInt(120),
		})

		assert.NoError(t, err)
		assert.Len(t, b.BatchNumber, 8)
		assert.NotEmpty(t, b.ID)
	})

	t.Run("keeps supplier batch number", func(t *testing.T) {
		repo := new(MockBatchRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Batch")).Return(nil)

		expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		uc := NewBatchUseCase(repo, nil, testLogger())
		b, err := uc.CreateBatch(ctx, &dto.CreateBatchInput{
			ProductID:   "p1",
			WarehouseID: "w1",
			BatchNumber: "LOT-2026-0042",
			Quantity:    decimal.NewFromInt(50),
			ExpiryDate:  &expiry,
		})

		assert.NoError(t, err)
		assert.Equal(t, "LOT-2026-0042", b.BatchNumber)
		assert.Equal(t, expiry, *b.ExpiryDate)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		repo := new(MockBatchRepo)

		uc := NewBatchUseCase(repo, nil, testLogger())
		_, err := uc.CreateBatch(ctx, &dto.CreateBatchInput{
			ProductID:   "p1",
			WarehouseID: "w1",
			Quantity:    decimal.NewFromInt(-3),
		})

		assert.ErrorIs(t, err, model.ErrInsufficientQuantity)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAvailableBatches(t *testing.T) {
	ctx := context.Background()

	repo := new(MockBatchRepo)
	repo.On("Available", ctx, "p1", "w1", model.RetrievalFIFO).Return([]model.Batch{}, nil)

	uc := NewBatchUseCase(repo, nil, testLogger())
	_, err := uc.AvailableBatches(ctx, "p1", "w1", model.RetrievalMethod("bogus"))

	assert.NoError(t, err, "unknown method falls back to FIFO")
	repo.AssertExpectations(t)
}

func TestDeleteBatch(t *testing.T) {
	ctx := context.Background()

	repo := new(MockBatchRepo)
	repo.On("FindByID", ctx, "b1").Return(&model.Batch{ID: "b1", ProductID: "p1", WarehouseID: "w1"}, nil)
	repo.On("Delete", ctx, "b1").Return(nil)

	uc := NewBatchUseCase(repo, nil, testLogger())
	assert.NoError(t, uc.DeleteBatch(ctx, "b1"))
	repo.AssertExpectations(t)
}
