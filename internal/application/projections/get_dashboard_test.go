package projections

import (
	"context"
	"errors"
	"testing"

	"kiba/internal/domain/attendance"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
)

// mockMemberLister implements DashboardMemberStore for testing.
type mockMemberLister struct {
	members []member.Member
	fail    bool
}

func (m *mockMemberLister) List(_ context.Context) ([]member.Member, error) {
	if m.fail {
		return nil, errors.New("database is locked")
	}
	return m.members, nil
}

// mockPaymentLister implements DashboardPaymentStore for testing.
type mockPaymentLister struct {
	payments []payment.Payment
	fail     bool
}

func (m *mockPaymentLister) List(_ context.Context) ([]payment.Payment, error) {
	if m.fail {
		return nil, errors.New("database is locked")
	}
	return m.payments, nil
}

// mockAttendanceLister implements DashboardAttendanceStore for testing.
type mockAttendanceLister struct {
	rows []attendance.Attendance
	fail bool
}

func (m *mockAttendanceLister) List(_ context.Context) ([]attendance.Attendance, error) {
	if m.fail {
		return nil, errors.New("database is locked")
	}
	return m.rows, nil
}

// TestComputeDashboardMetrics_Counts tests the member and payment counts.
func TestComputeDashboardMetrics_Counts(t *testing.T) {
	members := []member.Member{
		{ID: "m-1", Status: member.StatusActive},
		{ID: "m-2", Status: member.StatusActive},
		{ID: "m-3", Status: member.StatusInactive},
		{ID: "m-4", Status: member.StatusSuspended},
	}
	payments := []payment.Payment{
		{ID: "p-1", Status: payment.StatusPaid},
		{ID: "p-2", Status: payment.StatusPending},
		{ID: "p-3", Status: payment.StatusPending},
		{ID: "p-4", Status: payment.StatusOverdue},
	}

	m := ComputeDashboardMetrics(members, payments, nil)
	if m.TotalMembers != 4 {
		t.Errorf("expected TotalMembers=4, got %d", m.TotalMembers)
	}
	if m.ActiveMembers != 2 {
		t.Errorf("expected ActiveMembers=2, got %d", m.ActiveMembers)
	}
	if m.TotalPayments != 4 {
		t.Errorf("expected TotalPayments=4, got %d", m.TotalPayments)
	}
	if m.PendingPayments != 2 {
		t.Errorf("expected PendingPayments=2, got %d", m.PendingPayments)
	}
}

// TestComputeDashboardMetrics_AttendanceRate tests the percentage rounding.
func TestComputeDashboardMetrics_AttendanceRate(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     int
	}{
		{"two of three present rounds up", []string{attendance.StatusPresent, attendance.StatusPresent, attendance.StatusAbsent}, 67},
		{"one of three present rounds down", []string{attendance.StatusPresent, attendance.StatusAbsent, attendance.StatusExcused}, 33},
		{"all present", []string{attendance.StatusPresent, attendance.StatusPresent}, 100},
		{"none present", []string{attendance.StatusAbsent, attendance.StatusExcused}, 0},
		{"empty register short-circuits to zero", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]attendance.Attendance, len(tt.statuses))
			for i, s := range tt.statuses {
				rows[i] = attendance.Attendance{ID: "a", MemberID: "m-1", Date: "2026-03-01", Status: s}
			}
			m := ComputeDashboardMetrics(nil, nil, rows)
			if m.AttendanceRate != tt.want {
				t.Errorf("AttendanceRate = %d, want %d", m.AttendanceRate, tt.want)
			}
			if m.TotalAttendance != len(rows) {
				t.Errorf("TotalAttendance = %d, want %d", m.TotalAttendance, len(rows))
			}
		})
	}
}

// TestQueryGetDashboard tests the read-then-fold wiring.
func TestQueryGetDashboard(t *testing.T) {
	deps := GetDashboardDeps{
		MemberStore: &mockMemberLister{members: []member.Member{
			{ID: "m-1", Status: member.StatusActive},
		}},
		PaymentStore: &mockPaymentLister{payments: []payment.Payment{
			{ID: "p-1", Status: payment.StatusPending},
		}},
		AttendanceStore: &mockAttendanceLister{rows: []attendance.Attendance{
			{ID: "a-1", MemberID: "m-1", Date: "2026-03-01", Status: attendance.StatusPresent},
		}},
	}

	m, err := QueryGetDashboard(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalMembers != 1 || m.PendingPayments != 1 || m.AttendanceRate != 100 {
		t.Errorf("unexpected metrics: %+v", m)
	}
}

// TestQueryGetDashboard_ReadFailureAborts tests that any failed read aborts the query.
func TestQueryGetDashboard_ReadFailureAborts(t *testing.T) {
	deps := GetDashboardDeps{
		MemberStore:     &mockMemberLister{},
		PaymentStore:    &mockPaymentLister{fail: true},
		AttendanceStore: &mockAttendanceLister{},
	}

	_, err := QueryGetDashboard(context.Background(), deps)
	if err == nil {
		t.Error("expected error when a collection read fails")
	}
}
