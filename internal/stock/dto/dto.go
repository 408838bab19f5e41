package dto

type StockFilters struct {
	ProductID   string
	WarehouseID string
	Status      string
	Page        int
	PageSize    int
}
