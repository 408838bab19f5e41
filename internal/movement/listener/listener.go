package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oryxerp/inventory-service/internal/movement"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
	"github.com/oryxerp/inventory-service/pkg/broker"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementListener records policy-driven OUT movements for order events
// published by the order service.
type MovementListener struct {
	consumer *broker.KafkaConsumer
	uc       movement.UseCase
	logger   logger.ZapLogger
}

func NewMovementListener(consumer *broker.KafkaConsumer, uc movement.UseCase, logger logger.ZapLogger) *MovementListener {
	return &MovementListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *MovementListener) Start(ctx context.Context) {
	l.logger.Info("Starting Movement Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Movement Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID          string             `json:"id"`
	WarehouseID string             `json:"warehouse_id"`
	Items       []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (l *MovementListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		input := &dto.PolicyMovementInput{
			ProductID:       item.ProductID,
			WarehouseID:     event.Payload.WarehouseID,
			MovementType:    "OUT",
			Quantity:        item.Quantity,
			ReferenceNumber: event.Payload.ID,
			Notes:           "Order Sale",
			ActorID:         "system",
		}

		_, err := l.uc.RecordMovementWithPolicy(ctx, input)
		if err != nil {
			l.logger.Error("Failed to record movement for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
