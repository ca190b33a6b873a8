package pos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmwale/pos-backend/internal/modules/inventory"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Checkout processes the whole batch inside one transaction. Each line
// resolves its product, decrements stock with the conditional update, and
// appends a ledger row; any failure rolls back every line.
func (r *postgresRepo) Checkout(ctx context.Context, receiptID string, items []CartItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, item := range items {
		var productID uuid.UUID
		var name string
		var price float64
		err := tx.QueryRowContext(ctx, `
			SELECT id, name, price FROM products
			WHERE barcode=$1 ORDER BY id ASC LIMIT 1`, item.Barcode).
			Scan(&productID, &name, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return &ProductNotFoundError{Barcode: item.Barcode}
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - $1, updated_at = $2
			WHERE id = $3 AND stock >= $1`,
			item.Quantity, now, productID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var available int
			if err := tx.QueryRowContext(ctx,
				`SELECT stock FROM products WHERE id=$1`, productID).Scan(&available); err != nil {
				return err
			}
			return &inventory.InsufficientStockError{
				Barcode:   item.Barcode,
				Available: available,
				Requested: item.Quantity,
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sales
			  (id, product_id, barcode, product_name, quantity, price, total, receipt_id, refunded, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			uuid.New(), productID, item.Barcode, name, item.Quantity,
			price, price*float64(item.Quantity), receiptID, false, now)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) Refund(ctx context.Context, receiptID string, refundType RefundType, restock bool) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM sales
		WHERE receipt_id=$1 AND refunded=$2`, receiptID, false)
	if err != nil {
		return 0, err
	}
	type line struct {
		productID uuid.UUID
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return 0, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, ErrAlreadyRefundedOrNotFound
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE sales SET refunded=$1, refund_type=$2
		WHERE receipt_id=$3 AND refunded=$4`,
		true, string(refundType), receiptID, false)
	if err != nil {
		return 0, err
	}
	// Under read committed a concurrent refund can flag these lines between
	// the select and the update. Restocking from the stale line set would
	// restore stock twice, so the whole refund rolls back unless the update
	// flagged every selected line itself.
	if n, _ := res.RowsAffected(); n != int64(len(lines)) {
		return 0, ErrAlreadyRefundedOrNotFound
	}

	if restock {
		for _, l := range lines {
			// Plain increment: restoring stock cannot violate stock >= 0.
			// A product deleted since the sale has nothing to restock.
			_, err := tx.ExecContext(ctx, `
				UPDATE products SET stock = stock + $1, updated_at = $2
				WHERE id = $3`,
				l.quantity, time.Now().UTC(), l.productID)
			if err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(lines), nil
}

func (r *postgresRepo) ListSales(ctx context.Context) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, barcode, product_name, quantity, price, total,
		       receipt_id, refunded, refund_type, created_at
		FROM sales ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		s := &Sale{}
		var refundType sql.NullString
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Barcode, &s.ProductName,
			&s.Quantity, &s.Price, &s.Total, &s.ReceiptID, &s.Refunded,
			&refundType, &s.CreatedAt); err != nil {
			return nil, err
		}
		if refundType.Valid {
			s.RefundType = RefundType(refundType.String)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
