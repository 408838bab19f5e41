package dto

type AlertFilters struct {
	AlertType   string
	Status      string
	ProductID   string
	WarehouseID string
	Page        int
	PageSize    int
}
