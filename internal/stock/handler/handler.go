package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oryxerp/inventory-service/internal/auth"
	"github.com/oryxerp/inventory-service/internal/stock"
	"github.com/oryxerp/inventory-service/internal/stock/dto"
	"github.com/oryxerp/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) Register(rg *gin.RouterGroup, authz auth.Authorizer) {
	read := auth.RequirePermission(authz, auth.ModuleInventory, auth.ActionRead)

	// Stock rows are derived state; there is no write endpoint.
	rg.GET("/stocks", read, h.List)
	rg.GET("/stocks/item", read, h.Get)
}

func (h *StockHandler) Get(c *gin.Context) {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and warehouse_id are required"})
		return
	}

	s, err := h.uc.GetStock(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.logger.Error("stock request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no stock for this product and warehouse"})
		return
	}

	c.JSON(http.StatusOK, s)
}

func (h *StockHandler) List(c *gin.Context) {
	filters := &dto.StockFilters{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		Page:        parseIntQuery(c, "page", 1),
		PageSize:    parseIntQuery(c, "page_size", 10),
	}

	items, total, err := h.uc.ListStocks(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("stock list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
