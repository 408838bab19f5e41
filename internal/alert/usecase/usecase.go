package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oryxerp/inventory-service/internal/alert"
	"github.com/oryxerp/inventory-service/internal/alert/dto"
	"github.com/oryxerp/inventory-service/internal/catalog"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// ExpiryWindow is how far ahead the scheduled sweep looks for expiring
// batches.
const ExpiryWindow = 7 * 24 * time.Hour

type alertUseCase struct {
	repo    alert.Repository
	catalog catalog.Repository
	logger  logger.ZapLogger
}

func NewAlertUseCase(repo alert.Repository, cat catalog.Repository, log logger.ZapLogger) alert.UseCase {
	return &alertUseCase{
		repo:    repo,
		catalog: cat,
		logger:  log,
	}
}

func (uc *alertUseCase) GetAlert(ctx context.Context, id string) (*model.InventoryAlert, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *alertUseCase) ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.InventoryAlert, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *alertUseCase) Acknowledge(ctx context.Context, id, actorID string) (*model.InventoryAlert, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.CanAcknowledge() {
		return nil, fmt.Errorf("alert %s is %s: %w", id, a.Status, model.ErrInvalidAlertTransition)
	}

	now := time.Now()
	a.Status = model.AlertAcknowledged
	a.AcknowledgedAt = &now
	if actorID != "" {
		a.AcknowledgedBy = &actorID
	}

	if err := uc.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}

	uc.logger.Info("alert acknowledged",
		zap.String("alert_id", a.ID),
		zap.String("alert_type", string(a.AlertType)),
		zap.String("actor", actorID),
	)

	return a, nil
}

func (uc *alertUseCase) Resolve(ctx context.Context, id, actorID string) (*model.InventoryAlert, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.CanResolve() {
		return nil, fmt.Errorf("alert %s is %s: %w", id, a.Status, model.ErrInvalidAlertTransition)
	}

	now := time.Now()
	a.Status = model.AlertResolved
	a.ResolvedAt = &now
	if actorID != "" {
		a.ResolvedBy = &actorID
	}

	if err := uc.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}

	uc.logger.Info("alert resolved",
		zap.String("alert_id", a.ID),
		zap.String("alert_type", string(a.AlertType)),
		zap.String("actor", actorID),
	)

	return a, nil
}

func (uc *alertUseCase) CheckExpiringBatches(ctx context.Context) (int, error) {
	batches, err := uc.repo.ExpiringBatches(ctx, ExpiryWindow)
	if err != nil {
		return 0, err
	}

	opened := 0
	for _, b := range batches {
		exists, err := uc.repo.HasOpenAlert(ctx, b.ProductID, b.WarehouseID, model.AlertExpiry)
		if err != nil {
			return opened, err
		}
		if exists {
			continue
		}

		a := &model.InventoryAlert{
			ID:              uuid.New().String(),
			ProductID:       b.ProductID,
			WarehouseID:     b.WarehouseID,
			AlertType:       model.AlertExpiry,
			Status:          model.AlertOpen,
			CurrentQuantity: b.Quantity,
			TriggeredBy:     model.TriggerScheduledCheck,
			Message:         uc.expiryMessage(ctx, &b),
			CreatedAt:       time.Now(),
		}

		if err := uc.repo.Create(ctx, a); err != nil {
			return opened, err
		}
		opened++

		uc.logger.Info("expiry alert opened",
			zap.String("alert_id", a.ID),
			zap.String("batch_number", b.BatchNumber),
			zap.String("product_id", b.ProductID),
			zap.String("warehouse_id", b.WarehouseID),
		)
	}

	return opened, nil
}

func (uc *alertUseCase) expiryMessage(ctx context.Context, b *model.Batch) string {
	productName := b.ProductID
	if p, err := uc.catalog.GetProduct(ctx, b.ProductID); err == nil {
		productName = p.Name
	}
	return fmt.Sprintf("Batch %s of %s expires on %s",
		b.BatchNumber, productName, b.ExpiryDate.Format("2006-01-02"))
}
