package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is a specific lot of a product held in a warehouse. Its quantity is
// the source of truth for on-hand stock and is only changed through movement
// allocations or batch intake/deletion.
type Batch struct {
	ID              string          `db:"id" json:"id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	WarehouseID     string          `db:"warehouse_id" json:"warehouse_id"`
	BatchNumber     string          `db:"batch_number" json:"batch_number"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	ManufactureDate *time.Time      `db:"manufacture_date" json:"manufacture_date"`
	ExpiryDate      *time.Time      `db:"expiry_date" json:"expiry_date"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// NewBatchNumber generates a short unique lot number: the first uuid segment,
// uppercased.
func NewBatchNumber() string {
	return strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
}

func (b *Batch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

func (b *Batch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(now)
}

// ExpiresWithin reports whether the batch has an expiry date falling between
// now and now+window, bounds inclusive.
func (b *Batch) ExpiresWithin(now time.Time, window time.Duration) bool {
	if b.ExpiryDate == nil {
		return false
	}
	d := *b.ExpiryDate
	return !d.Before(now) && !d.After(now.Add(window))
}

// RetrievalMethod is the batch selection order for automatic allocation.
type RetrievalMethod string

const (
	RetrievalFIFO RetrievalMethod = "FIFO" // oldest received first
	RetrievalLIFO RetrievalMethod = "LIFO" // newest received first
	RetrievalFEFO RetrievalMethod = "FEFO" // earliest expiry first, no-expiry batches excluded
)

func (m RetrievalMethod) Valid() bool {
	switch m {
	case RetrievalFIFO, RetrievalLIFO, RetrievalFEFO:
		return true
	}
	return false
}
