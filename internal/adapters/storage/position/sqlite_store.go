package position

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiba/internal/adapters/storage"
	domain "kiba/internal/domain/position"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new position store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const positionColumns = "id, name, description, created_at"

// GetByID retrieves a Position by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound if the id does not resolve
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Position, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+positionColumns+" FROM position WHERE id = ?", id)
	entity, err := scanPosition(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Position{}, fmt.Errorf("position not found: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Position{}, storage.Unavailable("get position", err)
	}
	return entity, nil
}

// Save persists a Position to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Position) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO position (id, name, description, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description`,
		entity.ID, entity.Name, entity.Description,
		entity.CreatedAt.Format(storage.TimeFormat),
	)
	if err != nil {
		return storage.WriteError("save position", err)
	}
	return nil
}

// List retrieves all positions ordered by name ascending.
// POST: Returns an empty slice (not an error) when the table has no rows
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+positionColumns+" FROM position ORDER BY name ASC")
	if err != nil {
		return nil, storage.Unavailable("list positions", err)
	}
	defer rows.Close()

	results := []domain.Position{}
	for rows.Next() {
		entity, err := scanPosition(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("scan position", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate positions", err)
	}
	return results, nil
}

// scanPosition scans one position row from the given scan function.
func scanPosition(scan func(dest ...any) error) (domain.Position, error) {
	var entity domain.Position
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Description,
		&createdAt,
	)
	if err != nil {
		return domain.Position{}, err
	}
	entity.CreatedAt, err = time.Parse(storage.TimeFormat, createdAt)
	if err != nil {
		return domain.Position{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
