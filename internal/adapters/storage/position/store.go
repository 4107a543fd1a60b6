package position

import (
	"context"

	domain "kiba/internal/domain/position"
)

// Store persists Position state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Position, error)
	Save(ctx context.Context, value domain.Position) error
	List(ctx context.Context) ([]domain.Position, error)
}
