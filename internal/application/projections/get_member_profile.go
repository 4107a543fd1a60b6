package projections

import (
	"context"

	"kiba/internal/application/resolver"
	"kiba/internal/domain/attendance"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
)

// ProfileMemberStore defines the member store interface needed by the profile projection.
type ProfileMemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// ProfilePaymentStore defines the payment store interface needed by the profile projection.
type ProfilePaymentStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]payment.Payment, error)
}

// ProfileAttendanceStore defines the attendance store interface needed by the profile projection.
type ProfileAttendanceStore interface {
	ListByMemberID(ctx context.Context, memberID string) ([]attendance.Attendance, error)
}

// GetMemberProfileQuery carries input for the member profile projection.
type GetMemberProfileQuery struct {
	MemberID string
}

// GetMemberProfileDeps holds dependencies for the member profile projection.
type GetMemberProfileDeps struct {
	MemberStore     ProfileMemberStore
	PaymentStore    ProfilePaymentStore
	AttendanceStore ProfileAttendanceStore
	Resolver        ListResolver
}

// MemberProfileResult carries one member with their payment and attendance history.
type MemberProfileResult struct {
	Member      resolver.ResolvedMember
	Payments    []payment.Payment
	Attendances []attendance.Attendance
	Presences   int
}

// QueryGetMemberProfile returns a member's detail view: the resolved member
// plus their full payment and attendance history.
// PRE: The member exists (a missing id surfaces as NotFound from the store)
func QueryGetMemberProfile(ctx context.Context, query GetMemberProfileQuery, deps GetMemberProfileDeps) (MemberProfileResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, query.MemberID)
	if err != nil {
		return MemberProfileResult{}, err
	}

	rm, err := deps.Resolver.ResolveMember(ctx, m)
	if err != nil {
		return MemberProfileResult{}, err
	}

	payments, err := deps.PaymentStore.ListByMemberID(ctx, query.MemberID)
	if err != nil {
		return MemberProfileResult{}, err
	}
	attendances, err := deps.AttendanceStore.ListByMemberID(ctx, query.MemberID)
	if err != nil {
		return MemberProfileResult{}, err
	}

	result := MemberProfileResult{
		Member:      rm,
		Payments:    payments,
		Attendances: attendances,
	}
	for i := range attendances {
		if attendances[i].IsPresent() {
			result.Presences++
		}
	}
	return result, nil
}
