package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finsight/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, account_id, provider_id, amount, currency_code,
	transaction_date, name, merchant_name, category_primary, category_detailed,
	payment_channel, payment_metadata, location_city, is_pending, created_at, updated_at`

func scanTransaction(scanner interface{ Scan(...any) error }) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := scanner.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.ProviderID, &t.Amount, &t.CurrencyCode,
		&t.Date, &t.Name, &t.MerchantName, &t.CategoryPrimary, &t.CategoryDetailed,
		&t.PaymentChannel, &t.PaymentMetadata, &t.LocationCity, &t.IsPending,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date DESC, id DESC
		LIMIT $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) Upsert(ctx context.Context, params transaction.UpsertParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, account_id, provider_id, amount, currency_code,
			transaction_date, name, merchant_name, category_primary, category_detailed,
			payment_channel, payment_metadata, location_city, is_pending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, provider_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			amount = EXCLUDED.amount,
			currency_code = EXCLUDED.currency_code,
			transaction_date = EXCLUDED.transaction_date,
			name = EXCLUDED.name,
			merchant_name = EXCLUDED.merchant_name,
			category_primary = EXCLUDED.category_primary,
			category_detailed = EXCLUDED.category_detailed,
			payment_channel = EXCLUDED.payment_channel,
			payment_metadata = EXCLUDED.payment_metadata,
			location_city = EXCLUDED.location_city,
			is_pending = EXCLUDED.is_pending,
			updated_at = NOW()
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.AccountID, params.ProviderID, params.Amount, params.CurrencyCode,
		params.Date, params.Name, params.MerchantName, params.CategoryPrimary, params.CategoryDetailed,
		params.PaymentChannel, params.PaymentMetadata, params.LocationCity, params.IsPending,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}
