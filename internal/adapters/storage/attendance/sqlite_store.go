package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiba/internal/adapters/storage"
	domain "kiba/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const attendanceColumns = "id, member_id, date, status, notes, created_at"

// GetByID retrieves an Attendance row by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound if the id does not resolve
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Attendance, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE id = ?", id)
	entity, err := scanAttendance(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Attendance{}, fmt.Errorf("attendance not found: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Attendance{}, storage.Unavailable("get attendance", err)
	}
	return entity, nil
}

// Save persists an Attendance row to the database. Duplicate rows for the
// same (member, date) are allowed — there is no key constraint.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Attendance) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, member_id, date, status, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   member_id=excluded.member_id, date=excluded.date,
		   status=excluded.status, notes=excluded.notes`,
		entity.ID, entity.MemberID, entity.Date, entity.Status, entity.Notes,
		entity.CreatedAt.Format(storage.TimeFormat),
	)
	if err != nil {
		return storage.WriteError("save attendance", err)
	}
	return nil
}

// List retrieves all attendance rows ordered by date descending; rows on
// the same date come back in insertion order.
// POST: Returns an empty slice (not an error) when the table has no rows
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Attendance, error) {
	return s.list(ctx,
		"SELECT "+attendanceColumns+" FROM attendance ORDER BY date DESC, created_at ASC")
}

// ListByMemberID retrieves one member's attendance rows, newest date first.
// PRE: memberID is non-empty
// POST: Returns an empty slice when the member has no rows
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Attendance, error) {
	return s.list(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE member_id = ? ORDER BY date DESC, created_at ASC",
		memberID)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Unavailable("list attendance", err)
	}
	defer rows.Close()

	results := []domain.Attendance{}
	for rows.Next() {
		entity, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("scan attendance", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate attendance", err)
	}
	return results, nil
}

// scanAttendance scans one attendance row from the given scan function.
func scanAttendance(scan func(dest ...any) error) (domain.Attendance, error) {
	var entity domain.Attendance
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.MemberID,
		&entity.Date,
		&entity.Status,
		&entity.Notes,
		&createdAt,
	)
	if err != nil {
		return domain.Attendance{}, err
	}
	entity.CreatedAt, err = time.Parse(storage.TimeFormat, createdAt)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
