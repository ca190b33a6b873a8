package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item tracked by the store.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Barcode   string    `json:"barcode"`
	Stock     int       `json:"stock"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest holds the data for creating a product.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Barcode  string  `json:"barcode"`
	Stock    int     `json:"stock"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
	Barcode  *string  `json:"barcode"`
	Stock    *int     `json:"stock"`
}

// UpdateCategoryRequest is the payload for re-labelling a product.
type UpdateCategoryRequest struct {
	Category string `json:"category"`
}

// AddStockRequest is the payload for a manual restock.
type AddStockRequest struct {
	Amount int `json:"amount"`
}
