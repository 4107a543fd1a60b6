package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"kiba/internal/application/resolver"
	"kiba/internal/domain/attendance"
)

// AttendanceStoreForOrchestrator defines the store interface needed by
// attendance orchestrators.
type AttendanceStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (attendance.Attendance, error)
	Save(ctx context.Context, a attendance.Attendance) error
}

// AttendanceResolver attaches related records to an attendance row.
type AttendanceResolver interface {
	ResolveAttendance(ctx context.Context, a attendance.Attendance) (resolver.ResolvedAttendance, error)
}

// MarkAttendanceInput carries input for the mark attendance orchestrator.
type MarkAttendanceInput struct {
	MemberID string
	Date     string // YYYY-MM-DD, defaults to today when empty
	Status   string // defaults to present when empty
	Notes    string
}

// MarkAttendanceDeps holds dependencies for MarkAttendance.
type MarkAttendanceDeps struct {
	AttendanceStore AttendanceStoreForOrchestrator
	Resolver        AttendanceResolver
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteMarkAttendance records a presence row for a member on a date.
// Marking the same member twice on the same date creates two rows.
// PRE: MemberID is non-empty; Date, if given, parses as YYYY-MM-DD
// POST: Attendance persisted; the returned row carries its resolved member
func ExecuteMarkAttendance(ctx context.Context, input MarkAttendanceInput, deps MarkAttendanceDeps) (resolver.ResolvedAttendance, error) {
	now := deps.Now()

	date := input.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	status := input.Status
	if status == "" {
		status = attendance.StatusPresent
	}

	a := attendance.Attendance{
		ID:        deps.GenerateID(),
		MemberID:  input.MemberID,
		Date:      date,
		Status:    status,
		Notes:     input.Notes,
		CreatedAt: now,
	}

	if err := a.Validate(); err != nil {
		return resolver.ResolvedAttendance{}, err
	}

	if err := deps.AttendanceStore.Save(ctx, a); err != nil {
		return resolver.ResolvedAttendance{}, err
	}

	slog.Info("attendance_event", "event", "attendance_marked",
		"attendance_id", a.ID, "member_id", a.MemberID, "date", a.Date, "status", a.Status)
	return deps.Resolver.ResolveAttendance(ctx, a)
}

// UpdateAttendanceStatusInput carries input for the status update orchestrator.
// A nil Notes leaves the existing notes unchanged.
type UpdateAttendanceStatusInput struct {
	AttendanceID string
	Status       string
	Notes        *string
}

// UpdateAttendanceStatusDeps holds dependencies for UpdateAttendanceStatus.
type UpdateAttendanceStatusDeps struct {
	AttendanceStore AttendanceStoreForOrchestrator
	Resolver        AttendanceResolver
}

// ExecuteUpdateAttendanceStatus moves an attendance row to a new status.
// PRE: The row exists; Status is in the closed set
// POST: Status (and notes, when given) updated in place
func ExecuteUpdateAttendanceStatus(ctx context.Context, input UpdateAttendanceStatusInput, deps UpdateAttendanceStatusDeps) (resolver.ResolvedAttendance, error) {
	a, err := deps.AttendanceStore.GetByID(ctx, input.AttendanceID)
	if err != nil {
		return resolver.ResolvedAttendance{}, err
	}

	if err := attendance.ValidateStatus(input.Status); err != nil {
		return resolver.ResolvedAttendance{}, err
	}
	a.Status = input.Status
	if input.Notes != nil {
		a.Notes = *input.Notes
	}

	if err := deps.AttendanceStore.Save(ctx, a); err != nil {
		return resolver.ResolvedAttendance{}, err
	}

	slog.Info("attendance_event", "event", "attendance_status_updated",
		"attendance_id", a.ID, "status", a.Status)
	return deps.Resolver.ResolveAttendance(ctx, a)
}
