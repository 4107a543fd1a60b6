package member

import (
	"context"

	domain "kiba/internal/domain/member"
)

// Store persists Member state. Member is the only entity kind with a
// delete path exposed to callers.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Member, error)
}
