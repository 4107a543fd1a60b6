package category

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiba/internal/adapters/storage"
	domain "kiba/internal/domain/category"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new category store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const categoryColumns = "id, name, min_age, max_age, description, created_at"

// GetByID retrieves a Category by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound if the id does not resolve
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM category WHERE id = ?", id)
	entity, err := scanCategory(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Category{}, fmt.Errorf("category not found: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Category{}, storage.Unavailable("get category", err)
	}
	return entity, nil
}

// Save persists a Category to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category (id, name, min_age, max_age, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, min_age=excluded.min_age, max_age=excluded.max_age,
		   description=excluded.description`,
		entity.ID, entity.Name, entity.MinAge, entity.MaxAge,
		entity.Description, entity.CreatedAt.Format(storage.TimeFormat),
	)
	if err != nil {
		return storage.WriteError("save category", err)
	}
	return nil
}

// List retrieves all categories ordered by minimum age ascending.
// POST: Returns an empty slice (not an error) when the table has no rows
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM category ORDER BY min_age ASC")
	if err != nil {
		return nil, storage.Unavailable("list categories", err)
	}
	defer rows.Close()

	results := []domain.Category{}
	for rows.Next() {
		entity, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("scan category", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate categories", err)
	}
	return results, nil
}

// scanCategory scans one category row from the given scan function.
func scanCategory(scan func(dest ...any) error) (domain.Category, error) {
	var entity domain.Category
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.MinAge,
		&entity.MaxAge,
		&entity.Description,
		&createdAt,
	)
	if err != nil {
		return domain.Category{}, err
	}
	entity.CreatedAt, err = time.Parse(storage.TimeFormat, createdAt)
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
