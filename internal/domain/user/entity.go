package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // HR administrator - may edit ledgers and set overrides
	RoleStaff Role = "staff" // Read-only dashboard access
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the user may edit ledgers and manage overrides.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
