package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiba/internal/adapters/storage"
	domain "kiba/internal/domain/payment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const paymentColumns = "id, member_id, amount, month, year, method, status, paid_at, receipt_url, created_at"

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound if the id does not resolve
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE id = ?", id)
	entity, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", storage.ErrNotFound)
	}
	if err != nil {
		return domain.Payment{}, storage.Unavailable("get payment", err)
	}
	return entity, nil
}

// Save persists a Payment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	var paidAt any
	if entity.PaidAt != nil {
		paidAt = entity.PaidAt.Format(storage.TimeFormat)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment (id, member_id, amount, month, year, method, status, paid_at, receipt_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   member_id=excluded.member_id, amount=excluded.amount, month=excluded.month,
		   year=excluded.year, method=excluded.method, status=excluded.status,
		   paid_at=excluded.paid_at, receipt_url=excluded.receipt_url`,
		entity.ID, entity.MemberID, entity.Amount, entity.Month, entity.Year,
		entity.Method, entity.Status, paidAt, entity.ReceiptURL,
		entity.CreatedAt.Format(storage.TimeFormat),
	)
	if err != nil {
		return storage.WriteError("save payment", err)
	}
	return nil
}

// List retrieves all payments ordered by creation time descending.
// POST: Returns an empty slice (not an error) when the table has no rows
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Payment, error) {
	return s.list(ctx, "SELECT "+paymentColumns+" FROM payment ORDER BY created_at DESC")
}

// ListByMemberID retrieves one member's payments, newest first.
// PRE: memberID is non-empty
// POST: Returns an empty slice when the member has no payments
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Payment, error) {
	return s.list(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE member_id = ? ORDER BY created_at DESC",
		memberID)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Unavailable("list payments", err)
	}
	defer rows.Close()

	results := []domain.Payment{}
	for rows.Next() {
		entity, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, storage.Unavailable("scan payment", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate payments", err)
	}
	return results, nil
}

// scanPayment scans one payment row from the given scan function.
func scanPayment(scan func(dest ...any) error) (domain.Payment, error) {
	var entity domain.Payment
	var paidAt sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.MemberID,
		&entity.Amount,
		&entity.Month,
		&entity.Year,
		&entity.Method,
		&entity.Status,
		&paidAt,
		&entity.ReceiptURL,
		&createdAt,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	if paidAt.Valid {
		parsed, parseErr := time.Parse(storage.TimeFormat, paidAt.String)
		if parseErr != nil {
			return domain.Payment{}, fmt.Errorf("failed to parse paid_at: %w", parseErr)
		}
		entity.PaidAt = &parsed
	}
	entity.CreatedAt, err = time.Parse(storage.TimeFormat, createdAt)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
