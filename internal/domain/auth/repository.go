package auth

import (
	"context"

	"inventory/internal/domain"
)

// UserRepository defines storage operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by normalized email (NotFound if absent).
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether the email is taken.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByRole counts users holding role.
	CountByRole(ctx context.Context, role string) (int64, error)

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error)
}

// Locker serializes work across replicas. Release is called once the work is done.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(context.Context) error, err error)
}
