package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the tables the service owns. Statements are
// idempotent so EnsureSchema can run at every CLI invocation.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		address       TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS product_categories (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             BIGSERIAL PRIMARY KEY,
		name           TEXT NOT NULL UNIQUE,
		category_id    BIGINT REFERENCES product_categories(id) ON DELETE SET NULL,
		price          BIGINT NOT NULL CHECK (price >= 0),
		special_status BOOLEAN NOT NULL DEFAULT FALSE,
		ingredients    TEXT NOT NULL DEFAULT '',
		image_url      TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS restaurant_menu_items (
		id            BIGSERIAL PRIMARY KEY,
		restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		product_id    BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		availability  BOOLEAN NOT NULL DEFAULT TRUE,
		UNIQUE (restaurant_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_availability
		ON restaurant_menu_items (availability)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id            BIGSERIAL PRIMARY KEY,
		firstname     TEXT NOT NULL,
		lastname      TEXT NOT NULL,
		phonenumber   TEXT NOT NULL,
		address       TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'unprocessed',
		comment       TEXT NOT NULL DEFAULT '',
		registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		called_at     TIMESTAMPTZ,
		delivered_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id          BIGSERIAL PRIMARY KEY,
		order_id    BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id  BIGINT NOT NULL REFERENCES products(id),
		quantity    INT NOT NULL CHECK (quantity >= 1),
		total_price BIGINT NOT NULL CHECK (total_price >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines (order_id)`,
}

// EnsureSchema creates the service's tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
