package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, name, category, price, barcode, stock, image, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id=$1`, uid))
}

// GetByBarcode picks the lowest id when duplicates exist so repeated scans
// resolve to the same row.
func (r *postgresRepo) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE barcode=$1 ORDER BY id ASC LIMIT 1`, barcode))
}

func (r *postgresRepo) CountByBarcode(ctx context.Context, barcode string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE barcode=$1`, barcode).Scan(&count)
	return count, err
}

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, barcode, stock, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Category, p.Price, p.Barcode, p.Stock, p.Image,
		p.CreatedAt, p.UpdatedAt)
	return err
}

// Update writes the descriptive fields only. Stock never goes through this
// statement: writing a snapshot back would undo any decrement committed
// since the read, so all stock changes use AdjustStock.
func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET name=$1, category=$2, price=$3, barcode=$4, updated_at=$5
		WHERE id=$6`,
		p.Name, p.Category, p.Price, p.Barcode, time.Now().UTC(), p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdateCategory(ctx context.Context, id, category string) error {
	return r.updateField(ctx, id, `UPDATE products SET category=$1, updated_at=$2 WHERE id=$3`, category)
}

func (r *postgresRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.updateField(ctx, id, `UPDATE products SET image=$1, updated_at=$2 WHERE id=$3`, image)
}

func (r *postgresRepo) updateField(ctx context.Context, id, query, value string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, query, value, time.Now().UTC(), uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET stock = stock + $1, updated_at = $2
		WHERE id = $3 AND stock + $1 >= 0`,
		delta, time.Now().UTC(), uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}
	// No row changed: either the product is gone or stock would go negative.
	var barcode string
	var stock int
	err = r.db.QueryRowContext(ctx,
		`SELECT barcode, stock FROM products WHERE id=$1`, uid).Scan(&barcode, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return &InsufficientStockError{Barcode: barcode, Available: stock, Requested: -delta}
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Barcode,
		&p.Stock, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
