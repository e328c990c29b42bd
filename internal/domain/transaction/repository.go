package transaction

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// GetByID retrieves a transaction by its ID
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// ListByUserID retrieves transactions for a user, newest first
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Transaction, error)

	// ListByUserAndDateRange retrieves all of a user's transactions inside
	// [start, end], newest first, with no row cap beyond the provided limit
	ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time, limit int) ([]*Transaction, error)

	// Upsert creates or updates a transaction keyed by its provider ID
	Upsert(ctx context.Context, params UpsertParams) (*Transaction, error)
}
