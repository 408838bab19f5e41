package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oryxerp/inventory-service/internal/auth"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/movement"
	"github.com/oryxerp/inventory-service/internal/movement/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MovementHandler struct {
	uc     movement.UseCase
	logger logger.ZapLogger
}

func NewMovementHandler(uc movement.UseCase, log logger.ZapLogger) *MovementHandler {
	return &MovementHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *MovementHandler) Register(rg *gin.RouterGroup, authz auth.Authorizer) {
	read := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionRead)
	full := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionFull)

	rg.GET("/movements", read, h.List)
	rg.GET("/movements/:id", read, h.Get)
	rg.POST("/movements", full, h.Create)
	rg.POST("/movements/policy", full, h.CreateWithPolicy)
	rg.DELETE("/movements/:id", full, h.Delete)
}

type allocationRequest struct {
	BatchID  string          `json:"batch_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

type createMovementRequest struct {
	MovementType    string              `json:"movement_type" binding:"required"`
	TotalQuantity   decimal.Decimal     `json:"total_quantity" binding:"required"`
	Allocations     []allocationRequest `json:"allocations" binding:"required"`
	ReferenceNumber string              `json:"reference_number"`
	Notes           string              `json:"notes"`
}

func (h *MovementHandler) Create(c *gin.Context) {
	var req createMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &dto.RecordMovementInput{
		MovementType:    req.MovementType,
		TotalQuantity:   req.TotalQuantity,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ActorID:         auth.GetUserID(c.Request.Context()),
	}
	for _, a := range req.Allocations {
		input.Allocations = append(input.Allocations, dto.AllocationInput{
			BatchID:  a.BatchID,
			Quantity: a.Quantity,
		})
	}

	m, err := h.uc.RecordMovement(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stock movement created successfully", "movement": m})
}

type policyMovementRequest struct {
	ProductID       string          `json:"product_id" binding:"required"`
	WarehouseID     string          `json:"warehouse_id" binding:"required"`
	MovementType    string          `json:"movement_type" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

func (h *MovementHandler) CreateWithPolicy(c *gin.Context) {
	var req policyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.uc.RecordMovementWithPolicy(c.Request.Context(), &dto.PolicyMovementInput{
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		MovementType:    req.MovementType,
		Quantity:        req.Quantity,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ActorID:         auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stock movement created successfully", "movement": m})
}

func (h *MovementHandler) Get(c *gin.Context) {
	m, err := h.uc.GetMovement(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MovementHandler) List(c *gin.Context) {
	filters := &dto.MovementFilters{
		MovementType: c.Query("movement_type"),
		BatchID:      c.Query("batch_id"),
		WarehouseID:  c.Query("warehouse_id"),
		Page:         parseIntQuery(c, "page", 1),
		PageSize:     parseIntQuery(c, "page_size", 10),
	}
	if t, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		filters.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		filters.EndDate = &t
	}

	items, total, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *MovementHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteMovement(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MovementHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInsufficientQuantity),
		errors.Is(err, model.ErrAllocationMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrIrreversibleDeletion):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("movement request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
