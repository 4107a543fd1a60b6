// Package session holds the single currently authenticated console user.
//
// The store is an explicitly constructed, dependency-injected object: it is
// created once at process start, hydrated from durable client storage with
// one Initialize call, and passed to every component that gates access.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"kiba/internal/adapters/storage"
	"kiba/internal/domain/user"
)

// ErrInvalidCredentials is returned when no user matches the email/password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStoreForLogin defines the user store interface needed by Login.
type UserStoreForLogin interface {
	GetByCredentials(ctx context.Context, email, password string) (user.User, error)
}

// Store holds at most one authenticated user, mirroring it to a JSON file
// so the session survives process restarts.
type Store struct {
	mu       sync.RWMutex
	users    UserStoreForLogin
	path     string
	current  *user.User
	hydrated bool
}

// NewStore creates a session store persisting to the given file path.
func NewStore(users UserStoreForLogin, path string) *Store {
	return &Store{users: users, path: path}
}

// Initialize hydrates the in-memory current user from durable storage.
// It runs at most once; later calls are no-ops. After hydration the
// in-memory slot is authoritative until an explicit Login or Logout.
// POST: current user is set iff the persisted record existed and parsed
func (s *Store) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return nil
	}
	s.hydrated = true

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var u user.User
	if err := json.Unmarshal(data, &u); err != nil {
		// A corrupt session record is discarded, not fatal.
		slog.Warn("session_event", "event", "hydrate_discarded", "error", err)
		_ = os.Remove(s.path)
		return nil
	}

	s.current = &u
	slog.Info("session_event", "event", "hydrated", "email", u.Email, "role", u.Role)
	return nil
}

// Login looks up a user by exact email and password equality, stores it as
// current, and persists it.
// PRE: Initialize has been called
// POST: On a miss the current user is left exactly as it was
func (s *Store) Login(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByCredentials(ctx, email, password)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("session_event", "event", "login_failed", "email", email)
		return user.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, err
	}

	if err := s.persist(u); err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()

	slog.Info("session_event", "event", "login_success", "email", u.Email, "role", u.Role)
	return u, nil
}

// Logout clears the current user and removes the persisted record.
// POST: Current() reports absent; the session file is gone
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("session_event", "event", "logout_remove_failed", "error", err)
	}
	slog.Info("session_event", "event", "logout")
}

// Current returns the in-memory current user, or false if none is held.
// INVARIANT: The returned value is a copy; mutating it does not affect the store
func (s *Store) Current() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

// IsAuthenticated returns true iff a current user is held.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// persist writes the user record to the session file.
func (s *Store) persist(u user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
