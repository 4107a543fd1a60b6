package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// Store error taxonomy. Every store maps driver errors onto these
// sentinels so callers can branch with errors.Is without knowing the driver.
var (
	// ErrNotFound means the id (or lookup key) did not resolve to a row.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint means the write violated a store-side constraint: a
	// foreign key that does not resolve, or a duplicate unique key. The
	// input was invalid, the store itself is fine.
	ErrConstraint = errors.New("constraint violated")
	// ErrUnavailable means the backing store itself failed (network, disk,
	// locked database) — anything that is not a clean miss or bad input.
	ErrUnavailable = errors.New("backing store unavailable")
)

// Unavailable wraps a driver error as an ErrUnavailable with operation context.
// PRE: err is non-nil and is not sql.ErrNoRows
// POST: returned error matches errors.Is(_, ErrUnavailable)
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// WriteError classifies a driver error from a write. SQLITE_CONSTRAINT
// results (primary code 19, all extended variants) become ErrConstraint;
// everything else is an ErrUnavailable.
// PRE: err is non-nil
func WriteError(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	}
	return Unavailable(op, err)
}

// TimeFormat is the canonical layout for timestamps stored as TEXT.
const TimeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables. Category and position rows may disappear from under a
	// member (SET NULL keeps the reference representable as absent);
	// payment and attendance rows follow a hard member delete, which keeps
	// the cascade on the store side where the core does not handle it.
	schema := `
	CREATE TABLE IF NOT EXISTS category (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		min_age INTEGER NOT NULL,
		max_age INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS position (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		sex TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL DEFAULT '',
		age INTEGER NOT NULL DEFAULT 0,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		category_id TEXT,
		position_id TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (category_id) REFERENCES category(id) ON DELETE SET NULL,
		FOREIGN KEY (position_id) REFERENCES position(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		amount REAL NOT NULL,
		month TEXT NOT NULL,
		year INTEGER NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		paid_at TEXT,
		receipt_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS user (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_member_category_id ON member(category_id);
	CREATE INDEX IF NOT EXISTS idx_member_position_id ON member(position_id);
	CREATE INDEX IF NOT EXISTS idx_payment_member_id ON payment(member_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_member_id ON attendance(member_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
