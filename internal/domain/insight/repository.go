package insight

import (
	"context"
	"time"

	"finsight/internal/domain/account"
	"finsight/internal/domain/transaction"
)

// MerchantVisit is one distinct (user, merchant, category) pairing used
// by the cross-user affinity detector to build a population index.
type MerchantVisit struct {
	UserID   int64
	Merchant string
	Category string
}

// Repository defines the interface for insight data access plus the
// read-side collaborators the generation engine needs. The interface is
// defined in the domain layer and implemented in the infrastructure layer.
type Repository interface {
	// Create persists a finalized insight and returns the stored row
	Create(ctx context.Context, params CreateParams) (*Insight, error)

	// DeleteByUser removes all of a user's insights; deleting when none
	// exist is not an error
	DeleteByUser(ctx context.Context, userID int64) error

	// ListByUser returns a user's insights in insertion order, so a
	// listing after a generation run preserves detector order
	ListByUser(ctx context.Context, userID int64) ([]*Insight, error)

	// DominantCurrency resolves the user's primary currency by majority
	// vote over accounts, falling back to transactions, then to "USD"
	DominantCurrency(ctx context.Context, userID int64) (string, error)

	// TransactionsInRange returns the user's transactions dated inside
	// [start, end], newest first
	TransactionsInRange(ctx context.Context, userID int64, start, end time.Time) ([]*transaction.Transaction, error)

	// AccountsByUser returns the user's active accounts
	AccountsByUser(ctx context.Context, userID int64) ([]*account.Account, error)

	// PopulationMerchantVisits returns distinct (user, merchant, category)
	// rows across all users for spending transactions dated on or after
	// since, for the affinity detector's population index
	PopulationMerchantVisits(ctx context.Context, since time.Time) ([]MerchantVisit, error)
}
