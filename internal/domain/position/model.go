package position

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyName is returned when a position has no name.
var ErrEmptyName = errors.New("position name cannot be empty")

// Position holds state for a playing position members can be assigned to.
type Position struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Validate checks if the Position has valid data.
// PRE: Position struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Position) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
