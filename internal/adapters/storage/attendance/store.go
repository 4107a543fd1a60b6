package attendance

import (
	"context"

	domain "kiba/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Attendance, error)
	Save(ctx context.Context, value domain.Attendance) error
	List(ctx context.Context) ([]domain.Attendance, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Attendance, error)
}
