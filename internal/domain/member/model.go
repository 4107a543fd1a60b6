package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Status constants — the closed set a member may carry.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// ValidStatuses contains all valid member status values.
var ValidStatuses = []string{StatusActive, StatusInactive, StatusSuspended}

// Domain errors
var (
	ErrEmptyName     = errors.New("member full name cannot be empty")
	ErrInvalidEmail  = errors.New("member email must contain '@'")
	ErrInvalidStatus = errors.New("member status must be 'active', 'inactive', or 'suspended'")
)

// Member holds state for a club participant.
// CategoryID and PositionID may be empty — an unassigned reference is a
// representable state, not an error.
type Member struct {
	ID         string
	FullName   string
	Sex        string
	BirthDate  string // YYYY-MM-DD format
	Age        int    // stored at create/edit time, not recomputed lazily
	Phone      string
	Email      string
	Address    string
	PhotoURL   string
	CategoryID string
	PositionID string
	Status     string
	CreatedAt  time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: FullName must not be empty, Status must be in the closed set
func (m *Member) Validate() error {
	if strings.TrimSpace(m.FullName) == "" {
		return ErrEmptyName
	}
	if len(m.FullName) > MaxNameLength {
		return errors.New("member full name cannot exceed 100 characters")
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	return ValidateStatus(m.Status)
}

// ValidateStatus checks a status value against the member closed set.
// POST: Returns ErrInvalidStatus for any value outside the set
func ValidateStatus(status string) error {
	for _, s := range ValidStatuses {
		if s == status {
			return nil
		}
	}
	return ErrInvalidStatus
}

// IsActive returns true if the member is currently active.
// INVARIANT: Member fields are not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// AgeAt computes the stored age by calendar-year subtraction of the birth
// year from the given time's year. The original system never uses the full
// date-aware age, so neither does this one.
// POST: Returns 0 when BirthDate does not parse
func (m *Member) AgeAt(now time.Time) int {
	born, err := time.Parse("2006-01-02", m.BirthDate)
	if err != nil {
		return 0
	}
	return now.Year() - born.Year()
}
