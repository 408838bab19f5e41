package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oryxerp/inventory-service/internal/auth"
	"github.com/oryxerp/inventory-service/internal/model"
	"github.com/oryxerp/inventory-service/internal/policy"
	"github.com/oryxerp/inventory-service/internal/policy/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PolicyHandler struct {
	uc     policy.UseCase
	logger logger.ZapLogger
}

func NewPolicyHandler(uc policy.UseCase, log logger.ZapLogger) *PolicyHandler {
	return &PolicyHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PolicyHandler) Register(rg *gin.RouterGroup, authz auth.Authorizer) {
	read := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionRead)
	full := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionFull)

	rg.GET("/policies", read, h.List)
	rg.GET("/policies/:id", read, h.Get)
	rg.PUT("/policies", full, h.Upsert)
	rg.DELETE("/policies/:id", full, h.Delete)
}

type upsertPolicyRequest struct {
	ProductID       string          `json:"product_id" binding:"required"`
	WarehouseID     string          `json:"warehouse_id" binding:"required"`
	MinStockLevel   decimal.Decimal `json:"min_stock_level"`
	ReorderQuantity decimal.Decimal `json:"reorder_quantity"`
	LeadTimeDays    int             `json:"lead_time_days"`
	SafetyStock     decimal.Decimal `json:"safety_stock"`
	RetrievalMethod string          `json:"retrieval_method"`
	IsActive        *bool           `json:"is_active"`
}

func (h *PolicyHandler) Upsert(c *gin.Context) {
	var req upsertPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p, err := h.uc.UpsertPolicy(c.Request.Context(), &dto.UpsertPolicyInput{
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		MinStockLevel:   req.MinStockLevel,
		ReorderQuantity: req.ReorderQuantity,
		LeadTimeDays:    req.LeadTimeDays,
		SafetyStock:     req.SafetyStock,
		RetrievalMethod: req.RetrievalMethod,
		IsActive:        isActive,
		ActorID:         auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PolicyHandler) Get(c *gin.Context) {
	p, err := h.uc.GetPolicy(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PolicyHandler) List(c *gin.Context) {
	filters := &dto.PolicyFilters{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		ActiveOnly:  c.Query("active") == "true",
		Page:        parseIntQuery(c, "page", 1),
		PageSize:    parseIntQuery(c, "page_size", 10),
	}

	items, total, err := h.uc.ListPolicies(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *PolicyHandler) Delete(c *gin.Context) {
	if err := h.uc.DeletePolicy(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("policy request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
