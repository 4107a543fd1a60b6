package category

import (
	"context"

	domain "kiba/internal/domain/category"
)

// Store persists Category state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Category, error)
	Save(ctx context.Context, value domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
}
