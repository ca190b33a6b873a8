package inventory

import "context"

// Repository defines product data storage.
type Repository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	CountByBarcode(ctx context.Context, barcode string) (int, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	UpdateCategory(ctx context.Context, id, category string) error
	UpdateImage(ctx context.Context, id, image string) error
	// AdjustStock applies stock = stock + delta in one conditional update.
	// Negative deltas only apply while stock + delta >= 0; a failed
	// condition yields *InsufficientStockError, a missing row ErrNotFound.
	AdjustStock(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}
