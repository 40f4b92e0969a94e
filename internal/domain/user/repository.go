package user

import (
	"context"
)

// UserRepository defines data access methods for member accounts.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	GetByEmail(ctx context.Context, email string) (User, error)

	// ListActiveMembers returns every active account, used by the absence
	// detector to scan the congregation.
	ListActiveMembers(ctx context.Context) ([]User, error)

	Update(ctx context.Context, u User) error
}
