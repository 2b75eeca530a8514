// Package repository persists order aggregates in PostgreSQL. It is the
// storage collaborator behind the narrow contract the core depends on:
// eager listing, id existence, atomic id assignment and whole-aggregate
// insert. Nothing here lazy-loads; every aggregate leaves fully resolved.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// schemaStatements are executed one at a time: pgx's extended protocol
// does not accept multi-statement strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id INTEGER PRIMARY KEY,
		name        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		rate       NUMERIC(18,4) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id    INTEGER PRIMARY KEY,
		order_date  DATE NOT NULL,
		customer_id INTEGER NOT NULL REFERENCES customers (customer_id),
		net_amount  NUMERIC(18,4) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_details (
		order_detail_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		order_id        INTEGER NOT NULL REFERENCES orders (order_id) ON DELETE CASCADE,
		product_id      INTEGER NOT NULL REFERENCES products (product_id),
		line_no         INTEGER NOT NULL,
		qty             INTEGER NOT NULL,
		rate            NUMERIC(18,4) NOT NULL,
		amount          NUMERIC(18,4) NOT NULL,
		UNIQUE (order_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS order_id_counter (
		singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		last_id   INTEGER NOT NULL
	)`,
}

// EnsureSchema creates the tables if they do not exist yet. There is no
// migration tooling; the schema is fixed.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
