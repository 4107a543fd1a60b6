package category

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName       = errors.New("category name cannot be empty")
	ErrNegativeAge     = errors.New("category ages cannot be negative")
	ErrInvalidAgeRange = errors.New("category minimum age cannot exceed maximum age")
)

// Category holds state for an age band that members are grouped into.
// The band is inclusive on both ends; a single-age band (MinAge == MaxAge)
// is valid.
type Category struct {
	ID          string
	Name        string
	MinAge      int
	MaxAge      int
	Description string
	CreatedAt   time.Time
}

// Validate checks if the Category has valid data.
// PRE: Category struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: 0 <= MinAge <= MaxAge
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.MinAge < 0 || c.MaxAge < 0 {
		return ErrNegativeAge
	}
	if c.MinAge > c.MaxAge {
		return ErrInvalidAgeRange
	}
	return nil
}

// Covers returns true if the given age falls inside the band.
// INVARIANT: Category fields are not mutated
func (c *Category) Covers(age int) bool {
	return age >= c.MinAge && age <= c.MaxAge
}
