package projections

import (
	"context"

	"kiba/internal/application/resolver"
)

// GetAttendanceListDeps holds dependencies for the attendance list projection.
type GetAttendanceListDeps struct {
	AttendanceStore DashboardAttendanceStore
	Resolver        ListResolver
}

// QueryGetAttendanceList returns every attendance row, most recent date
// first (store ordering), each with its member attached.
// POST: An empty register yields an empty slice, not an error
func QueryGetAttendanceList(ctx context.Context, deps GetAttendanceListDeps) ([]resolver.ResolvedAttendance, error) {
	rows, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]resolver.ResolvedAttendance, 0, len(rows))
	for _, a := range rows {
		ra, err := deps.Resolver.ResolveAttendance(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	return out, nil
}
