package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/stock/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
)

type MockStockRepo struct{ mock.Mock }

func (m *MockStockRepo) Get(ctx context.Context, productID, warehouseID string) (*model.Stock, error) {
	args := m.Called(ctx, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stock), args.Error(1)
}

func (m *MockStockRepo) FindAll(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Stock), args.Int(1), args.Error(2)
}

func (m *MockStockRepo) Recalculate(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	args := m.Called(ctx, productID, warehouseID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console", IsDevelopment: true})
}

func TestStockCacheKey(t *testing.T) {
	assert.Equal(t, "stock:p1:w1", StockCacheKey("p1", "w1"))
}

func TestGetStock(t *testing.T) {
	ctx := context.Background()

	t.Run("existing pair", func(t *testing.T) {
		repo := new(MockStockRepo)
		repo.On("Get", ctx, "p1", "w1").Return(&model.Stock{
			ProductID:      "p1",
			WarehouseID:    "w1",
			QuantityOnHand: decimal.NewFromInt(42),
			Status:         model.StockGood,
		}, nil)

		uc := NewStockUseCase(repo, nil, testLogger())
		s, err := uc.GetStock(ctx, "p1", "w1")

		assert.NoError(t, err)
		assert.True(t, s.QuantityOnHand.Equal(decimal.NewFromInt(42)))
		assert.Equal(t, model.StockGood, s.Status)
	})

	t.Run("missing pair means zero stock", func(t *testing.T) {
		repo := new(MockStockRepo)
		repo.On("Get", ctx, "p1", "w2").Return(nil, nil)

		uc := NewStockUseCase(repo, nil, testLogger())
		s, err := uc.GetStock(ctx, "p1", "w2")

		assert.NoError(t, err)
		assert.Nil(t, s)
	})
}

func TestRecalculate(t *testing.T) {
	ctx := context.Background()

	repo := new(MockStockRepo)
	repo.On("Recalculate", ctx, "p1", "w1").Return(decimal.NewFromInt(75), nil)

	uc := NewStockUseCase(repo, nil, testLogger())
	total, err := uc.Recalculate(ctx, "p1", "w1")

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(75)))
}
