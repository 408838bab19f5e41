package dto

import (
	"github.com/shopspring/decimal"
)

type AllocationInput struct {
	BatchID  string
	Quantity decimal.Decimal
}

type RecordMovementInput struct {
	MovementType    string
	TotalQuantity   decimal.Decimal
	Allocations     []AllocationInput
	ReferenceNumber string
	Notes           string
	ActorID         string
}

type PolicyMovementInput struct {
	ProductID       string
	WarehouseID     string
	MovementType    string
	Quantity        decimal.Decimal
	ReferenceNumber string
	Notes           string
	ActorID         string
}
