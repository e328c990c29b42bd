package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"finsight/internal/domain/account"
	"finsight/internal/domain/insight"
	"finsight/internal/domain/transaction"
)

// InsightRepository implements insight.Repository: insight rows plus
// the read-side queries the generation engine needs.
type InsightRepository struct {
	db           *DB
	transactions *TransactionRepository
	accounts     *AccountRepository
}

func NewInsightRepository(db *DB, transactions *TransactionRepository, accounts *AccountRepository) *InsightRepository {
	return &InsightRepository{db: db, transactions: transactions, accounts: accounts}
}

func (r *InsightRepository) Create(ctx context.Context, params insight.CreateParams) (*insight.Insight, error) {
	evidence, err := json.Marshal(params.Evidence)
	if err != nil {
		return nil, fmt.Errorf("failed to encode insight evidence: %w", err)
	}

	query := `
		INSERT INTO insights (user_id, domain, family, title, description, priority, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, domain, family, title, description, priority, evidence, created_at
	`

	row, err := scanInsight(r.db.QueryRowContext(
		ctx, query,
		params.UserID, string(params.Domain), string(params.Family),
		params.Title, params.Description, string(params.Priority), evidence,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create insight: %w", err)
	}
	return row, nil
}

func (r *InsightRepository) DeleteByUser(ctx context.Context, userID int64) error {
	// Deleting when no rows exist is a no-op, not an error.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM insights WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete insights: %w", err)
	}
	return nil
}

func (r *InsightRepository) ListByUser(ctx context.Context, userID int64) ([]*insight.Insight, error) {
	query := `
		SELECT id, user_id, domain, family, title, description, priority, evidence, created_at
		FROM insights
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []*insight.Insight
	for rows.Next() {
		row, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insights: %w", err)
	}

	return insights, nil
}

// DominantCurrency resolves a user's primary currency by majority vote
// over account currencies, falling back to transaction currencies, then
// to USD.
func (r *InsightRepository) DominantCurrency(ctx context.Context, userID int64) (string, error) {
	accountVote := `
		SELECT currency_code
		FROM accounts
		WHERE user_id = $1 AND currency_code <> ''
		GROUP BY currency_code
		ORDER BY COUNT(*) DESC, currency_code
		LIMIT 1
	`
	var currency string
	err := r.db.QueryRowContext(ctx, accountVote, userID).Scan(&currency)
	if err == nil {
		return currency, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to resolve account currency: %w", err)
	}

	transactionVote := `
		SELECT currency_code
		FROM transactions
		WHERE user_id = $1 AND currency_code <> ''
		GROUP BY currency_code
		ORDER BY COUNT(*) DESC, currency_code
		LIMIT 1
	`
	err = r.db.QueryRowContext(ctx, transactionVote, userID).Scan(&currency)
	if err == sql.ErrNoRows {
		return "USD", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve transaction currency: %w", err)
	}
	return currency, nil
}

func (r *InsightRepository) TransactionsInRange(ctx context.Context, userID int64, start, end time.Time) ([]*transaction.Transaction, error) {
	// The engine wants every row in the window.
	return r.transactions.ListByUserAndDateRange(ctx, userID, start, end, 10000)
}

func (r *InsightRepository) AccountsByUser(ctx context.Context, userID int64) ([]*account.Account, error) {
	return r.accounts.ListByUserID(ctx, userID)
}

// PopulationMerchantVisits returns distinct (user, merchant, category)
// rows for spending transactions across all users since the given date.
// Ordering is fixed so affinity scoring is deterministic between runs.
func (r *InsightRepository) PopulationMerchantVisits(ctx context.Context, since time.Time) ([]insight.MerchantVisit, error) {
	query := `
		SELECT DISTINCT merchant_name, category_primary, user_id
		FROM transactions
		WHERE merchant_name <> '' AND amount > 0 AND transaction_date >= $1
		ORDER BY merchant_name, user_id
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant visits: %w", err)
	}
	defer rows.Close()

	var visits []insight.MerchantVisit
	for rows.Next() {
		var v insight.MerchantVisit
		if err := rows.Scan(&v.Merchant, &v.Category, &v.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan merchant visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchant visits: %w", err)
	}

	return visits, nil
}

func scanInsight(scanner interface{ Scan(...any) error }) (*insight.Insight, error) {
	var row insight.Insight
	var domain, family, priority string
	var evidence []byte
	err := scanner.Scan(
		&row.ID, &row.UserID, &domain, &family,
		&row.Title, &row.Description, &priority, &evidence, &row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	row.Domain = insight.Domain(domain)
	row.Family = insight.Family(family)
	row.Priority = insight.Priority(priority)
	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &row.Evidence); err != nil {
			return nil, fmt.Errorf("failed to decode insight evidence: %w", err)
		}
	}
	return &row, nil
}
