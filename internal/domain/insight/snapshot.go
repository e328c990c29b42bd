package insight

import (
	"context"
	"fmt"
	"time"

	"finsight/internal/domain/account"
	"finsight/internal/domain/transaction"
)

// Snapshot is the frozen view of a user's recent activity that every
// detector reads. It is built once per generation run; detectors never
// touch the database directly.
type Snapshot struct {
	UserID       int64
	Currency     string
	Transactions []*transaction.Transaction
	Accounts     []*account.Account
	Now          time.Time
}

// Empty reports whether the snapshot has no transactions for detectors
// to work with. An empty snapshot short-circuits the run.
func (s *Snapshot) Empty() bool {
	return len(s.Transactions) == 0
}

// Spending returns the snapshot's outflow transactions.
func (s *Snapshot) Spending() []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if IsSpending(t) {
			out = append(out, t)
		}
	}
	return out
}

// Since returns spending transactions dated on or after cutoff.
func (s *Snapshot) Since(cutoff time.Time) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if IsSpending(t) && !t.Date.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// loadSnapshot assembles the engine's working set: the user's dominant
// currency, their accounts, and the trailing window of settled
// transactions in that currency. Transactions with no currency tag are
// assumed to be in the dominant currency only when it is USD, matching
// how untagged provider rows are fed in.
func loadSnapshot(ctx context.Context, repo Repository, userID int64, now time.Time, windowDays int) (*Snapshot, error) {
	currency, err := repo.DominantCurrency(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dominant currency: %w", err)
	}

	accounts, err := repo.AccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	start := now.AddDate(0, 0, -windowDays)
	rows, err := repo.TransactionsInRange(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	filtered := make([]*transaction.Transaction, 0, len(rows))
	for _, t := range rows {
		if t.IsPending {
			continue
		}
		code := t.CurrencyCode
		if code == "" {
			code = "USD"
		}
		if code != currency {
			continue
		}
		filtered = append(filtered, t)
	}

	return &Snapshot{
		UserID:       userID,
		Currency:     currency,
		Transactions: filtered,
		Accounts:     accounts,
		Now:          now,
	}, nil
}
