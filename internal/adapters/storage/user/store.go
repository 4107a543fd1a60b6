package user

import (
	"context"

	domain "kiba/internal/domain/user"
)

// Store persists User state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// GetByCredentials looks up the user whose email AND password both match
	// exactly. Verbatim equality, no hashing — the login contract.
	GetByCredentials(ctx context.Context, email, password string) (domain.User, error)
	Save(ctx context.Context, value domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}
