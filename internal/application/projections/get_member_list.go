package projections

import (
	"context"

	"kiba/internal/application/resolver"
	"kiba/internal/domain/attendance"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
)

// ListResolver attaches one level of relations to listed records.
type ListResolver interface {
	ResolveMember(ctx context.Context, m member.Member) (resolver.ResolvedMember, error)
	ResolvePayment(ctx context.Context, p payment.Payment) (resolver.ResolvedPayment, error)
	ResolveAttendance(ctx context.Context, a attendance.Attendance) (resolver.ResolvedAttendance, error)
}

// GetMemberListDeps holds dependencies for the member list projection.
type GetMemberListDeps struct {
	MemberStore DashboardMemberStore
	Resolver    ListResolver
}

// QueryGetMemberList returns every member, newest first (store ordering),
// each with its category and position attached.
// POST: An empty club yields an empty slice, not an error
func QueryGetMemberList(ctx context.Context, deps GetMemberListDeps) ([]resolver.ResolvedMember, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]resolver.ResolvedMember, 0, len(members))
	for _, m := range members {
		rm, err := deps.Resolver.ResolveMember(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, nil
}
