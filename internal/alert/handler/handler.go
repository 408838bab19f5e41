package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oryxerp/inventory-service/internal/alert"
	"github.com/oryxerp/inventory-service/internal/alert/dto"
	"github.com/oryxerp/inventory-service/internal/auth"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type AlertHandler struct {
	uc     alert.UseCase
	logger logger.ZapLogger
}

func NewAlertHandler(uc alert.UseCase, log logger.ZapLogger) *AlertHandler {
	return &AlertHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AlertHandler) Register(rg *gin.RouterGroup, authz auth.Authorizer) {
	read := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionRead)
	full := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionFull)

	rg.GET("/alerts", read, h.List)
	rg.GET("/alerts/:id", read, h.Get)
	rg.PATCH("/alerts/:id/acknowledge", full, h.Acknowledge)
	rg.PATCH("/alerts/:id/resolve", full, h.Resolve)
	rg.POST("/alerts/check-expiring", full, h.CheckExpiring)
}

func (h *AlertHandler) Get(c *gin.Context) {
	a, err := h.uc.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AlertHandler) List(c *gin.Context) {
	filters := &dto.AlertFilters{
		AlertType:   c.Query("alert_type"),
		Status:      c.Query("status"),
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Page:        parseIntQuery(c, "page", 1),
		PageSize:    parseIntQuery(c, "page_size", 10),
	}

	items, total, err := h.uc.ListAlerts(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *AlertHandler) Acknowledge(c *gin.Context) {
	a, err := h.uc.Acknowledge(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context()))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Alert acknowledged", "alert": a})
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	a, err := h.uc.Resolve(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context()))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Alert resolved", "alert": a})
}

func (h *AlertHandler) CheckExpiring(c *gin.Context) {
	opened, err := h.uc.CheckExpiringBatches(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts_opened": opened})
}

func (h *AlertHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidAlertTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("alert request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
