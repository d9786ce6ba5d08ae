package users

import "context"

// Repo is the persistence boundary for users. Lookups by email and
// username are case-insensitive. Absent rows surface as
// errors.ErrUserNotFound; Create reports a unique-email conflict as
// errors.ErrDuplicateEmail so callers can resolve the concurrent
// first-login race.
type Repo interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
