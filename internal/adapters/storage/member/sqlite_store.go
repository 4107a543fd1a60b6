package member

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiba/internal/adapters/storage"
	domain "kiba/internal/domain/member"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "id, full_name, sex, birth_date, age, phone, email, address, photo_url, category_id, position_id, status, created_at"

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound if the id does not resolve
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, storage.Unavailable("get member", err)
	}
	return entity, nil
}

// Save persists a Member to the database.
// A broken category or position reference surfaces as a foreign-key
// constraint failure from the store.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	var categoryID, positionID any
	if entity.CategoryID != "" {
		categoryID = entity.CategoryID
	}
	if entity.PositionID != "" {
		positionID = entity.PositionID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO member (id, full_name, sex, birth_date, age, phone, email, address, photo_url, category_id, position_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   full_name=excluded.full_name, sex=excluded.sex, birth_date=excluded.birth_date,
		   age=excluded.age, phone=excluded.phone, email=excluded.email,
		   address=excluded.address, photo_url=excluded.photo_url,
		   category_id=excluded.category_id, position_id=excluded.position_id,
		   status=excluded.status`,
		entity.ID, entity.FullName, entity.Sex, entity.BirthDate, entity.Age,
		entity.Phone, entity.Email, entity.Address, entity.PhotoURL,
		categoryID, positionID, entity.Status,
		entity.CreatedAt.Format(storage.TimeFormat),
	)
	if err != nil {
		return storage.WriteError("save member", err)
	}
	return nil
}

// Delete removes a Member from the database. Payment and attendance rows
// referencing the member follow via the store-side cascade.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	if err != nil {
		return storage.Unavailable("delete member", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("member not found: %w", storage.ErrNotFound)
	}
	return nil
}

// List retrieves all members ordered by creation time descending.
// POST: Returns an empty slice (not an error) when the table has no rows
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM member ORDER BY created_at DESC")
	if err != nil {
		return nil, storage.Unavailable("list members", err)
	}
	defer rows.Close()

	results := []domain.Member{}
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("scan member", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate members", err)
	}
	return results, nil
}

// scanMember scans one member row from the given scan function.
func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var categoryID, positionID sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.FullName,
		&entity.Sex,
		&entity.BirthDate,
		&entity.Age,
		&entity.Phone,
		&entity.Email,
		&entity.Address,
		&entity.PhotoURL,
		&categoryID,
		&positionID,
		&entity.Status,
		&createdAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	if categoryID.Valid {
		entity.CategoryID = categoryID.String
	}
	if positionID.Valid {
		entity.PositionID = positionID.String
	}
	entity.CreatedAt, err = time.Parse(storage.TimeFormat, createdAt)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
