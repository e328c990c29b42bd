package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/account"
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, provider_id, name, account_type, subtype,
	currency_code, current_balance, is_active, created_at, updated_at`

func scanAccount(scanner interface{ Scan(...any) error }) (*account.Account, error) {
	var a account.Account
	var balance decimal.NullDecimal
	err := scanner.Scan(
		&a.ID, &a.UserID, &a.ProviderID, &a.Name, &a.AccountType, &a.Subtype,
		&a.CurrencyCode, &balance, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if balance.Valid {
		a.CurrentBalance = &balance.Decimal
	}
	return &a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) Upsert(ctx context.Context, params account.UpsertParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (user_id, provider_id, name, account_type, subtype,
			currency_code, current_balance, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		ON CONFLICT (user_id, provider_id) DO UPDATE SET
			name = EXCLUDED.name,
			account_type = EXCLUDED.account_type,
			subtype = EXCLUDED.subtype,
			currency_code = EXCLUDED.currency_code,
			current_balance = EXCLUDED.current_balance,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING ` + accountColumns

	var balance decimal.NullDecimal
	if params.CurrentBalance != nil {
		balance = decimal.NullDecimal{Decimal: *params.CurrentBalance, Valid: true}
	}

	a, err := scanAccount(r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.ProviderID, params.Name, params.AccountType,
		params.Subtype, params.CurrencyCode, balance,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}
	return a, nil
}
