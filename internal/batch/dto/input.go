package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBatchInput struct {
	ProductID       string
	WarehouseID     string
	BatchNumber     string // generated when empty
	Quantity        decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
}

type BatchFilters struct {
	ProductID   string
	WarehouseID string
	BatchNumber string
	Page        int
	PageSize    int
}
