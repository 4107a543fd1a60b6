package attendance

import (
	"errors"
	"time"
)

// Status constants — the closed set an attendance row may carry.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusExcused = "excused"
)

// ValidStatuses contains all valid attendance status values.
var ValidStatuses = []string{StatusPresent, StatusAbsent, StatusExcused}

// Domain errors
var (
	ErrEmptyMember   = errors.New("attendance must be associated with a member")
	ErrEmptyDate     = errors.New("attendance date cannot be empty")
	ErrInvalidDate   = errors.New("attendance date must be in YYYY-MM-DD format")
	ErrInvalidStatus = errors.New("attendance status must be 'present', 'absent', or 'excused'")
)

// Attendance holds state for one per-session presence record.
// No uniqueness is enforced on (member, date) — marking the same day twice
// creates two rows, and insertion order decides which one renders last.
type Attendance struct {
	ID        string
	MemberID  string
	Date      string // YYYY-MM-DD format
	Status    string
	Notes     string
	CreatedAt time.Time
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID and Date must not be empty, Status must be in the closed set
func (a *Attendance) Validate() error {
	if a.MemberID == "" {
		return ErrEmptyMember
	}
	if a.Date == "" {
		return ErrEmptyDate
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return ErrInvalidDate
	}
	return ValidateStatus(a.Status)
}

// ValidateStatus checks a status value against the attendance closed set.
// POST: Returns ErrInvalidStatus for any value outside the set
func ValidateStatus(status string) error {
	for _, s := range ValidStatuses {
		if s == status {
			return nil
		}
	}
	return ErrInvalidStatus
}

// IsPresent returns true if the row records a presence.
// INVARIANT: Attendance fields are not mutated
func (a *Attendance) IsPresent() bool {
	return a.Status == StatusPresent
}
