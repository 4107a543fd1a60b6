package payment

import (
	"errors"
	"time"
)

// Status constants — the closed set a payment may carry.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// ValidStatuses contains all valid payment status values.
var ValidStatuses = []string{StatusPending, StatusPaid, StatusOverdue}

// Domain errors
var (
	ErrEmptyMember    = errors.New("payment must be associated with a member")
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrEmptyMonth     = errors.New("payment month cannot be empty")
	ErrInvalidStatus  = errors.New("payment status must be 'pending', 'paid', or 'overdue'")
)

// Payment holds state for one monthly dues record tied to a member.
// No uniqueness is enforced on (member, month, year) — duplicate rows are
// possible, matching the backing store's unconstrained schema.
type Payment struct {
	ID         string
	MemberID   string
	Amount     float64
	Month      string
	Year       int
	Method     string
	Status     string
	PaidAt     *time.Time // nil until the payment is marked paid
	ReceiptURL string
	CreatedAt  time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Amount >= 0, Status must be in the closed set
func (p *Payment) Validate() error {
	if p.MemberID == "" {
		return ErrEmptyMember
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if p.Month == "" {
		return ErrEmptyMonth
	}
	return ValidateStatus(p.Status)
}

// ValidateStatus checks a status value against the payment closed set.
// POST: Returns ErrInvalidStatus for any value outside the set
func ValidateStatus(status string) error {
	for _, s := range ValidStatuses {
		if s == status {
			return nil
		}
	}
	return ErrInvalidStatus
}

// ApplyStatus sets the payment status with the paid-date coupling rule:
// moving to paid stamps PaidAt with now; moving to any other status leaves
// a previously set PaidAt untouched.
// PRE: status has been validated against the closed set
// POST: Status is set; PaidAt is non-nil iff status is paid or was already stamped
func (p *Payment) ApplyStatus(status string, now time.Time) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	p.Status = status
	if status == StatusPaid {
		p.PaidAt = &now
	}
	return nil
}

// IsPaid returns true if the payment has been marked paid.
// INVARIANT: Payment fields are not mutated
func (p *Payment) IsPaid() bool {
	return p.Status == StatusPaid
}
