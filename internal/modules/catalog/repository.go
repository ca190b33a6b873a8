package catalog

import "context"

// Repository defines category data storage.
type Repository interface {
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}
