package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"kiba/internal/domain/position"
)

// PositionStoreForOrchestrator defines the store interface needed by
// position orchestrators.
type PositionStoreForOrchestrator interface {
	Save(ctx context.Context, p position.Position) error
}

// CreatePositionInput carries input for the create position orchestrator.
type CreatePositionInput struct {
	Name        string
	Description string
}

// CreatePositionDeps holds dependencies for CreatePosition.
type CreatePositionDeps struct {
	PositionStore PositionStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteCreatePosition creates a new playing position.
// PRE: Name is non-empty
// POST: Position persisted with generated ID and creation timestamp
func ExecuteCreatePosition(ctx context.Context, input CreatePositionInput, deps CreatePositionDeps) (position.Position, error) {
	p := position.Position{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   deps.Now(),
	}

	if err := p.Validate(); err != nil {
		return position.Position{}, err
	}

	if err := deps.PositionStore.Save(ctx, p); err != nil {
		return position.Position{}, err
	}

	slog.Info("position_event", "event", "position_created", "position_id", p.ID, "name", p.Name)
	return p, nil
}
