package dto

import "github.com/shopspring/decimal"

type UpsertPolicyInput struct {
	ProductID       string
	WarehouseID     string
	MinStockLevel   decimal.Decimal
	ReorderQuantity decimal.Decimal
	LeadTimeDays    int
	SafetyStock     decimal.Decimal
	RetrievalMethod string
	IsActive        bool
	ActorID         string
}

type PolicyFilters struct {
	ProductID   string
	WarehouseID string
	ActiveOnly  bool
	Page        int
	PageSize    int
}
