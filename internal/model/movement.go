package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// BatchDelta converts an allocation quantity into the signed delta applied to
// the batch. IN adds stock; OUT and RETURN remove it; ADJUSTMENT carries its
// own sign (a negative adjustment is a downward correction).
func (t MovementType) BatchDelta(quantity decimal.Decimal) decimal.Decimal {
	switch t {
	case MovementOut, MovementReturn:
		return quantity.Neg()
	default:
		return quantity
	}
}

// StockMovement is an immutable inventory transaction. Corrections are made
// with a new ADJUSTMENT movement or by deleting the movement, which reverses
// its allocations.
type StockMovement struct {
	ID              string          `db:"id" json:"id"`
	MovementType    MovementType    `db:"movement_type" json:"movement_type"`
	TotalQuantity   decimal.Decimal `db:"total_quantity" json:"total_quantity"`
	ReferenceNumber *string         `db:"reference_number" json:"reference_number"` // PO number, invoice, etc.
	Notes           *string         `db:"notes" json:"notes"`
	CreatedBy       *string         `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`

	Allocations []MovementAllocation `db:"-" json:"allocations"`
}

// MovementAllocation is the portion of a movement's total attributed to one
// batch.
type MovementAllocation struct {
	ID         string          `db:"id" json:"id"`
	MovementID string          `db:"movement_id" json:"movement_id"`
	BatchID    string          `db:"batch_id" json:"batch_id"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
}

// AllocationTotal sums the allocation quantities.
func AllocationTotal(allocs []MovementAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Quantity)
	}
	return total
}
