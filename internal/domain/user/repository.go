package user

import "context"

// UserRepository defines data access for dashboard accounts.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns ErrUserNotFound when
	// missing.
	GetByEmail(ctx context.Context, email string) (User, error)
}
