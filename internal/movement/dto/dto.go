package dto

import "time"

type MovementFilters struct {
	MovementType string
	BatchID      string
	WarehouseID  string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
