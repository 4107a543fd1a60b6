package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiba/internal/adapters/storage"
	domain "kiba/internal/domain/user"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const userColumns = "id, name, email, password, role, created_at"

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound if the id does not resolve
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.get(ctx, "SELECT "+userColumns+" FROM user WHERE id = ?", id)
}

// GetByEmail retrieves a User by email.
// PRE: email is non-empty
// POST: Returns the entity, or ErrNotFound on a miss
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.get(ctx, "SELECT "+userColumns+" FROM user WHERE email = ?", email)
}

// GetByCredentials retrieves the User matching email and password exactly.
// The email column is unique, so at most one row can match.
// PRE: email is non-empty
// POST: Returns the entity, or ErrNotFound on a miss
func (s *SQLiteStore) GetByCredentials(ctx context.Context, email, password string) (domain.User, error) {
	return s.get(ctx,
		"SELECT "+userColumns+" FROM user WHERE email = ? AND password = ?",
		email, password)
}

func (s *SQLiteStore) get(ctx context.Context, query string, args ...any) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, query, args...)
	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, storage.Unavailable("get user", err)
	}
	return entity, nil
}

// Save persists a User to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user (id, name, email, password, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email,
		   password=excluded.password, role=excluded.role`,
		entity.ID, entity.Name, entity.Email, entity.Password, entity.Role,
		entity.CreatedAt.Format(storage.TimeFormat),
	)
	if err != nil {
		return storage.WriteError("save user", err)
	}
	return nil
}

// List retrieves all users ordered by creation time descending.
// POST: Returns an empty slice (not an error) when the table has no rows
func (s *SQLiteStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM user ORDER BY created_at DESC")
	if err != nil {
		return nil, storage.Unavailable("list users", err)
	}
	defer rows.Close()

	results := []domain.User{}
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("scan user", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate users", err)
	}
	return results, nil
}

// Count returns the total number of users.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user").Scan(&count)
	if err != nil {
		return 0, storage.Unavailable("count users", err)
	}
	return count, nil
}

// scanUser scans one user row from the given scan function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var entity domain.User
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.Password,
		&entity.Role,
		&createdAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	entity.CreatedAt, err = time.Parse(storage.TimeFormat, createdAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
