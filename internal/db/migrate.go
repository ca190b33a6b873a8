package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements are kept portable between Postgres and SQLite: tests run the
// same schema against an in-memory SQLite database.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		price      DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		barcode    TEXT NOT NULL UNIQUE,
		stock      INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id           TEXT PRIMARY KEY,
		product_id   TEXT NOT NULL,
		barcode      TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity     INTEGER NOT NULL CHECK (quantity > 0),
		price        DOUBLE PRECISION NOT NULL,
		total        DOUBLE PRECISION NOT NULL,
		receipt_id   TEXT NOT NULL,
		refunded     BOOLEAN NOT NULL DEFAULT FALSE,
		refund_type  TEXT,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_receipt_id ON sales (receipt_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at)`,
}

// Migrate applies the schema. Every statement is idempotent, so it is safe
// to run on every startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
