package model

// Product and Warehouse are reference entities owned by the central catalog
// service. This service only reads the attributes needed for alert messages.

type Product struct {
	ID            string `db:"id" json:"id"`
	SKU           string `db:"sku" json:"sku"`
	Name          string `db:"name" json:"name"`
	UnitOfMeasure string `db:"unit_of_measure" json:"unit_of_measure"`
}

type Warehouse struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
