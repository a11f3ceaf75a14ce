package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Execer is the subset of a pool or transaction needed to apply migrations.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrations are applied in order and are safe to re-run.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS shops (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		gstin VARCHAR(15) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		cell VARCHAR(20) NOT NULL DEFAULT '',
		state VARCHAR(50) NOT NULL DEFAULT '',
		state_code VARCHAR(10) NOT NULL DEFAULT '',
		invoice_prefix VARCHAR(10) NOT NULL DEFAULT 'SP',
		bank_name VARCHAR(255) NOT NULL DEFAULT '',
		bank_account_no VARCHAR(50) NOT NULL DEFAULT '',
		bank_ifsc VARCHAR(20) NOT NULL DEFAULT '',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		gstin VARCHAR(15) NOT NULL DEFAULT '',
		phone VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL DEFAULT '',
		state_code VARCHAR(10) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE RESTRICT,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		cgst NUMERIC(14,2) NOT NULL DEFAULT 0,
		sgst NUMERIC(14,2) NOT NULL DEFAULT 0,
		igst NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		is_inter_state BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		sno INTEGER NOT NULL,
		description VARCHAR(255) NOT NULL,
		hsn_sac VARCHAR(20) NOT NULL DEFAULT '998313',
		quantity NUMERIC(12,3) NOT NULL,
		rate NUMERIC(14,2) NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (order_id, sno)
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL UNIQUE REFERENCES orders(id) ON DELETE RESTRICT,
		shop_id UUID NOT NULL REFERENCES shops(id) ON DELETE RESTRICT,
		invoice_no VARCHAR(50) NOT NULL UNIQUE,
		prefix VARCHAR(10) NOT NULL,
		year INTEGER NOT NULL,
		sequence INTEGER NOT NULL,
		invoice_date DATE NOT NULL,
		pdf_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (prefix, year, sequence)
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_sequences (
		prefix VARCHAR(10) NOT NULL,
		year INTEGER NOT NULL,
		last_number INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (prefix, year)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_sno ON order_items (order_id, sno)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_created_at ON invoices (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_shops_default ON shops (is_default, created_at)`,
}

// Migrate applies every migration in order, stopping at the first failure.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range Migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "apply migration %d", i+1)
		}
	}
	log.Info().Int("count", len(Migrations)).Msg("Migrations applied")
	return nil
}
