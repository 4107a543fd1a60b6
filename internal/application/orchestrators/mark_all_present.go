package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"kiba/internal/domain/attendance"
	"kiba/internal/domain/member"
)

// MemberListStoreForOrchestrator lists members for bulk operations.
type MemberListStoreForOrchestrator interface {
	List(ctx context.Context) ([]member.Member, error)
}

// MarkAllPresentInput carries input for the bulk presence orchestrator.
type MarkAllPresentInput struct {
	Date string // YYYY-MM-DD, defaults to today when empty
}

// MarkAllPresentDeps holds dependencies for MarkAllPresent.
type MarkAllPresentDeps struct {
	MemberStore     MemberListStoreForOrchestrator
	AttendanceStore AttendanceStoreForOrchestrator
	GenerateID      func() string
	Now             func() time.Time
}

// MarkAllPresentItem reports the outcome for one member in the bulk run.
type MarkAllPresentItem struct {
	MemberID     string
	AttendanceID string
	Err          error
}

// MarkAllPresentResult summarizes a bulk presence run.
type MarkAllPresentResult struct {
	Date   string
	Marked int
	Failed int
	Items  []MarkAllPresentItem
}

// ExecuteMarkAllPresent creates one present row for every active member on
// the given date. Each create stands alone — a failure for one member does
// not roll back or stop the others, and running twice doubles the rows.
// PRE: Date, if given, parses as YYYY-MM-DD
// POST: One attempted row per active member; per-member outcomes returned
func ExecuteMarkAllPresent(ctx context.Context, input MarkAllPresentInput, deps MarkAllPresentDeps) (MarkAllPresentResult, error) {
	now := deps.Now()

	date := input.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return MarkAllPresentResult{}, attendance.ErrInvalidDate
	}

	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return MarkAllPresentResult{}, err
	}

	result := MarkAllPresentResult{Date: date, Items: []MarkAllPresentItem{}}
	for _, m := range members {
		if !m.IsActive() {
			continue
		}

		a := attendance.Attendance{
			ID:        deps.GenerateID(),
			MemberID:  m.ID,
			Date:      date,
			Status:    attendance.StatusPresent,
			CreatedAt: now,
		}

		item := MarkAllPresentItem{MemberID: m.ID, AttendanceID: a.ID}
		if err := deps.AttendanceStore.Save(ctx, a); err != nil {
			item.AttendanceID = ""
			item.Err = err
			result.Failed++
			slog.Warn("attendance_event", "event", "mark_all_present_item_failed",
				"member_id", m.ID, "date", date, "error", err)
		} else {
			result.Marked++
		}
		result.Items = append(result.Items, item)
	}

	slog.Info("attendance_event", "event", "mark_all_present_completed",
		"date", date, "marked", result.Marked, "failed", result.Failed)
	return result, nil
}
