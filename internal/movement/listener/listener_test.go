package listener

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
)

type MockMovementUC struct{ mock.Mock }

func (m *MockMovementUC) RecordMovement(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockMovement), args.Error(1)
}

func (m *MockMovementUC) RecordMovementWithPolicy(ctx context.Context, input *dto.PolicyMovementInput) (*model.StockMovement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockMovement), args.Error(1)
}

func (m *MockMovementUC) GetMovement(ctx context.Context, id string) (*model.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockMovement), args.Error(1)
}

func (m *MockMovementUC) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.StockMovement), args.Int(1), args.Error(2)
}

func (m *MockMovementUC) DeleteMovement(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{Level: "error", Encoding: "console", IsDevelopment: true})
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("order created records an OUT per item", func(t *testing.T) {
		uc := new(MockMovementUC)
		uc.On("RecordMovementWithPolicy", ctx, mock.MatchedBy(func(in *dto.PolicyMovementInput) bool {
			return in.MovementType == "OUT" &&
				in.WarehouseID == "w1" &&
				in.ReferenceNumber == "order-77" &&
				in.ActorID == "system"
		})).Return(&model.StockMovement{}, nil).Twice()

		l := NewMovementListener(nil, uc, testLogger())
		l.processMessage(ctx, []byte(`{
			"event_id": "evt-1",
			"event_type": "OrderCreated",
			"payload": {
				"id": "order-77",
				"warehouse_id": "w1",
				"items": [
					{"product_id": "p1", "quantity": "2"},
					{"product_id": "p2", "quantity": "1"}
				]
			}
		}`))

		uc.AssertExpectations(t)
	})

	t.Run("other event types ignored", func(t *testing.T) {
		uc := new(MockMovementUC)

		l := NewMovementListener(nil, uc, testLogger())
		l.processMessage(ctx, []byte(`{"event_type": "OrderCancelled", "payload": {"id": "order-78"}}`))

		uc.AssertNotCalled(t, "RecordMovementWithPolicy", mock.Anything, mock.Anything)
	})

	t.Run("malformed payload does not panic", func(t *testing.T) {
		uc := new(MockMovementUC)

		l := NewMovementListener(nil, uc, testLogger())
		l.processMessage(ctx, []byte(`{not json`))

		uc.AssertNotCalled(t, "RecordMovementWithPolicy", mock.Anything, mock.Anything)
	})
}

func TestQuantityDecoding(t *testing.T) {
	// Order services publish quantities as JSON strings; decimal accepts both.
	var item OrderItemPayload
	assert.NoError(t, json.Unmarshal([]byte(`{"product_id": "p1", "quantity": "2.5"}`), &item))
	assert.True(t, item.Quantity.Equal(decimal.RequireFromString("2.5")))
}
