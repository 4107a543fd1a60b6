package payment

import (
	"context"

	domain "kiba/internal/domain/payment"
)

// Store persists Payment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	Save(ctx context.Context, value domain.Payment) error
	List(ctx context.Context) ([]domain.Payment, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Payment, error)
}
