package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		provider_id TEXT NOT NULL,
		name TEXT NOT NULL,
		account_type TEXT NOT NULL,
		subtype TEXT NOT NULL DEFAULT '',
		currency_code TEXT NOT NULL DEFAULT 'USD',
		current_balance NUMERIC(18,2),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, provider_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		account_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		provider_id TEXT NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		currency_code TEXT NOT NULL DEFAULT 'USD',
		transaction_date TIMESTAMPTZ NOT NULL,
		name TEXT NOT NULL,
		merchant_name TEXT NOT NULL DEFAULT '',
		category_primary TEXT NOT NULL DEFAULT '',
		category_detailed TEXT NOT NULL DEFAULT '',
		payment_channel TEXT NOT NULL DEFAULT '',
		payment_metadata TEXT NOT NULL DEFAULT '',
		location_city TEXT NOT NULL DEFAULT '',
		is_pending BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, provider_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_date
		ON transactions (user_id, transaction_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_merchant_date
		ON transactions (merchant_name, transaction_date)
		WHERE merchant_name <> ''`,
	`CREATE TABLE IF NOT EXISTS insights (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		domain TEXT NOT NULL,
		family TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		evidence JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insights_user ON insights (user_id)`,
}

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent so the command is safe to run on every deploy.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
