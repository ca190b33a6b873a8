package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Category is a product grouping label. Products reference it by name, not
// by id: deleting a category leaves the stale label on its products.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCategoryRequest is the payload for adding a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}
