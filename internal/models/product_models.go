package models

import "time"

// Product is an inventory item.
type Product struct {
	ID          string    `json:"id"`
	Create      time.Time `json:"create"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Dimension   string    `json:"dimension"`
	Price       string    `json:"price"`
}

// ProductsPage is the paginated listing body for products.
type ProductsPage struct {
	Data       []Product `json:"data"`
	TotalItems int       `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}

// StockAdjustment is the body returned by POST /products/update/count.
type StockAdjustment struct {
	Message  string `json:"message"`
	NewCount int    `json:"newCount"`
}
