package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kiba/internal/adapters/storage"
	"kiba/internal/domain/user"
)

// ErrEmailExists is returned when registering an email already in use.
var ErrEmailExists = errors.New("a user with this email already exists")

// UserStoreForOrchestrator defines the store interface needed by
// user orchestrators.
type UserStoreForOrchestrator interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// RegisterUserInput carries input for the register user orchestrator.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string // defaults to "user" when empty
}

// RegisterUserDeps holds dependencies for RegisterUser.
type RegisterUserDeps struct {
	UserStore  UserStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRegisterUser creates a console account. The password is stored
// verbatim — login compares it by plain equality.
// PRE: Email is non-empty and not already registered
// POST: User persisted with role defaulted to "user" when not given
func ExecuteRegisterUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (user.User, error) {
	role := input.Role
	if role == "" {
		role = user.RoleUser
	}

	u := user.User{
		ID:        deps.GenerateID(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		Role:      role,
		CreatedAt: deps.Now(),
	}

	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	_, err := deps.UserStore.GetByEmail(ctx, u.Email)
	if err == nil {
		return user.User{}, ErrEmailExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, err
	}

	if err := deps.UserStore.Save(ctx, u); err != nil {
		return user.User{}, err
	}

	slog.Info("user_event", "event", "user_registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}
