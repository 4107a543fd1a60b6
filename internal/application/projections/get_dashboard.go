package projections

import (
	"context"
	"math"

	"kiba/internal/domain/attendance"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
)

// DashboardMemberStore defines the member store interface needed by the dashboard projection.
type DashboardMemberStore interface {
	List(ctx context.Context) ([]member.Member, error)
}

// DashboardPaymentStore defines the payment store interface needed by the dashboard projection.
type DashboardPaymentStore interface {
	List(ctx context.Context) ([]payment.Payment, error)
}

// DashboardAttendanceStore defines the attendance store interface needed by the dashboard projection.
type DashboardAttendanceStore interface {
	List(ctx context.Context) ([]attendance.Attendance, error)
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	MemberStore     DashboardMemberStore
	PaymentStore    DashboardPaymentStore
	AttendanceStore DashboardAttendanceStore
}

// DashboardMetrics carries the roll-up numbers shown on the landing view.
type DashboardMetrics struct {
	TotalMembers    int
	ActiveMembers   int
	TotalPayments   int
	PendingPayments int
	TotalAttendance int
	AttendanceRate  int // whole percent, 0 when no attendance exists
}

// ComputeDashboardMetrics folds already-fetched collections into the metrics
// record. Pure and synchronous — no I/O, independently testable with literal
// slices.
// POST: AttendanceRate is round(100 * present / total), or 0 when total is 0
func ComputeDashboardMetrics(members []member.Member, payments []payment.Payment, attendances []attendance.Attendance) DashboardMetrics {
	m := DashboardMetrics{
		TotalMembers:    len(members),
		TotalPayments:   len(payments),
		TotalAttendance: len(attendances),
	}

	for i := range members {
		if members[i].IsActive() {
			m.ActiveMembers++
		}
	}
	for i := range payments {
		if payments[i].Status == payment.StatusPending {
			m.PendingPayments++
		}
	}

	present := 0
	for i := range attendances {
		if attendances[i].IsPresent() {
			present++
		}
	}
	if m.TotalAttendance > 0 {
		m.AttendanceRate = int(math.Round(float64(present) / float64(m.TotalAttendance) * 100))
	}

	return m
}

// QueryGetDashboard reads the three collections and folds them into one
// metrics record. Any failed read aborts the whole query — partial metrics
// would silently misreport the club's state.
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardMetrics, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}
	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}
	attendances, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}
	return ComputeDashboardMetrics(members, payments, attendances), nil
}
