package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oryxerp/inventory-service/internal/auth"
	"github.com/oryxerp/inventory-service/internal/batch"
	"github.com/oryxerp/inventory-service/internal/batch/dto"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BatchHandler struct {
	uc     batch.UseCase
	logger logger.ZapLogger
}

func NewBatchHandler(uc batch.UseCase, log logger.ZapLogger) *BatchHandler {
	return &BatchHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *BatchHandler) Register(rg *gin.RouterGroup, authz auth.Authorizer) {
	read := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionRead)
	full := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionFull)

	rg.GET("/batches", read, h.List)
	rg.GET("/batches/available", read, h.Available)
	rg.GET("/batches/:id", read, h.Get)
	rg.POST("/batches", full, h.Create)
	rg.DELETE("/batches/:id", full, h.Delete)
}

type createBatchRequest struct {
	ProductID       string          `json:"product_id" binding:"required"`
	WarehouseID     string          `json:"warehouse_id" binding:"required"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
}

func (h *BatchHandler) Create(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.uc.CreateBatch(c.Request.Context(), &dto.CreateBatchInput{
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		BatchNumber:     req.BatchNumber,
		Quantity:        req.Quantity,
		ManufactureDate: req.ManufactureDate,
		ExpiryDate:      req.ExpiryDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BatchHandler) Get(c *gin.Context) {
	b, err := h.uc.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BatchHandler) List(c *gin.Context) {
	filters := &dto.BatchFilters{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		BatchNumber: c.Query("batch_number"),
		Page:        parseIntQuery(c, "page", 1),
		PageSize:    parseIntQuery(c, "page_size", 10),
	}

	items, total, err := h.uc.ListBatches(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *BatchHandler) Available(c *gin.Context) {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and warehouse_id are required"})
		return
	}

	method := model.RetrievalMethod(c.DefaultQuery("method", string(model.RetrievalFIFO)))

	items, err := h.uc.AvailableBatches(c.Request.Context(), productID, warehouseID, method)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteBatch(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BatchHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInsufficientQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("batch request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
