package user

import "context"

// Repository defines the interface for user data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, error)
}
