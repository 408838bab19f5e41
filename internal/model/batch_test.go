package model

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewBatchNumber(t *testing.T) {
	n := NewBatchNumber()
	assert.Len(t, n, 8)
	assert.Equal(t, strings.ToUpper(n), n)

	assert.NotEqual(t, NewBatchNumber(), NewBatchNumber())
}

func TestBatchExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	date := func(d time.Time) *time.Time { return &d }

	cases := []struct {
		name     string
		expiry   *time.Time
		expected bool
	}{
		{"no expiry date", nil, false},
		{"already past", date(now.Add(-time.Hour)), false},
		{"expires now", date(now), true},
		{"inside window", date(now.Add(3 * 24 * time.Hour)), true},
		{"window boundary", date(now.Add(window)), true},
		{"beyond window", date(now.Add(window + time.Hour)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Batch{ExpiryDate: tc.expiry}
			assert.Equal(t, tc.expected, b.ExpiresWithin(now, window))
		})
	}
}

func TestBatchIsExpired(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	assert.False(t, (&Batch{}).IsExpired(now))
	assert.True(t, (&Batch{ExpiryDate: &yesterday}).IsExpired(now))
	assert.False(t, (&Batch{ExpiryDate: &tomorrow}).IsExpired(now))
}

func TestBatchHasStock(t *testing.T) {
	assert.True(t, (&Batch{Quantity: decimal.NewFromInt(1)}).HasStock())
	assert.False(t, (&Batch{Quantity: decimal.Zero}).HasStock())
	assert.False(t, (&Batch{Quantity: decimal.NewFromInt(-1)}).HasStock())
}

func TestRetrievalMethodValid(t *testing.T) {
	assert.True(t, RetrievalFIFO.Valid())
	assert.True(t, RetrievalLIFO.Valid())
	assert.True(t, RetrievalFEFO.Valid())
	assert.False(t, RetrievalMethod("LILO").Valid())
	assert.False(t, RetrievalMethod("").Valid())
}
