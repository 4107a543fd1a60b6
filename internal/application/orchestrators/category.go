package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"kiba/internal/domain/category"
)

// CategoryStoreForOrchestrator defines the store interface needed by
// category orchestrators.
type CategoryStoreForOrchestrator interface {
	Save(ctx context.Context, c category.Category) error
}

// CreateCategoryInput carries input for the create category orchestrator.
type CreateCategoryInput struct {
	Name        string
	MinAge      int
	MaxAge      int
	Description string
}

// CreateCategoryDeps holds dependencies for CreateCategory.
type CreateCategoryDeps struct {
	CategoryStore CategoryStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteCreateCategory creates a new age category.
// PRE: Name is non-empty, MinAge <= MaxAge
// POST: Category persisted with generated ID and creation timestamp
func ExecuteCreateCategory(ctx context.Context, input CreateCategoryInput, deps CreateCategoryDeps) (category.Category, error) {
	c := category.Category{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		MinAge:      input.MinAge,
		MaxAge:      input.MaxAge,
		Description: input.Description,
		CreatedAt:   deps.Now(),
	}

	if err := c.Validate(); err != nil {
		return category.Category{}, err
	}

	if err := deps.CategoryStore.Save(ctx, c); err != nil {
		return category.Category{}, err
	}

	slog.Info("category_event", "event", "category_created", "category_id", c.ID, "name", c.Name)
	return c, nil
}
