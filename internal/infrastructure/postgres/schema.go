package postgres

import (
	"context"
	"fmt"
)

// schemaStatements crea las tablas si no existen. Idempotente: se ejecuta en cada arranque.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id       BIGSERIAL PRIMARY KEY,
		name     TEXT UNIQUE NOT NULL,
		unit     TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		brand    TEXT NOT NULL DEFAULT '',
		stock    INTEGER NOT NULL CHECK (stock >= 0),
		status   TEXT NOT NULL DEFAULT '',
		image    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS products_name_lower_key ON products (LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS inventory_history (
		id           BIGSERIAL PRIMARY KEY,
		product_id   BIGINT REFERENCES products(id),
		old_quantity INTEGER,
		new_quantity INTEGER,
		change_date  TEXT,
		user_info    TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS inventory_history_product_idx ON inventory_history (product_id, change_date DESC)`,
}

// EnsureSchema aplica schemaStatements sobre q (pool o tx).
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
