package attendance_test

import (
	"testing"

	"kiba/internal/domain/attendance"
)

// TestAttendanceValidation tests validation of Attendance.
func TestAttendanceValidation(t *testing.T) {
	tests := []struct {
		name       string
		attendance attendance.Attendance
		wantErr    bool
	}{
		{
			name: "valid present row",
			attendance: attendance.Attendance{
				ID:       "123",
				MemberID: "m-1",
				Date:     "2026-08-28",
				Status:   attendance.StatusPresent,
			},
			wantErr: false,
		},
		{
			name: "valid excused row with notes",
			attendance: attendance.Attendance{
				ID:       "123",
				MemberID: "m-1",
				Date:     "2026-08-28",
				Status:   attendance.StatusExcused,
				Notes:    "lesión de tobillo",
			},
			wantErr: false,
		},
		{
			name: "missing member",
			attendance: attendance.Attendance{
				ID:     "123",
				Date:   "2026-08-28",
				Status: attendance.StatusPresent,
			},
			wantErr: true,
		},
		{
			name: "missing date",
			attendance: attendance.Attendance{
				ID:       "123",
				MemberID: "m-1",
				Status:   attendance.StatusPresent,
			},
			wantErr: true,
		},
		{
			name: "malformed date",
			attendance: attendance.Attendance{
				ID:       "123",
				MemberID: "m-1",
				Date:     "28/08/2026",
				Status:   attendance.StatusPresent,
			},
			wantErr: true,
		},
		{
			name: "status outside closed set",
			attendance: attendance.Attendance{
				ID:       "123",
				MemberID: "m-1",
				Date:     "2026-08-28",
				Status:   "late",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.attendance.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAttendanceValidateStatus tests the closed-set status guard.
func TestAttendanceValidateStatus(t *testing.T) {
	for _, s := range attendance.ValidStatuses {
		if err := attendance.ValidateStatus(s); err != nil {
			t.Errorf("ValidateStatus(%q) = %v, want nil", s, err)
		}
	}
	if err := attendance.ValidateStatus("tardy"); err != attendance.ErrInvalidStatus {
		t.Errorf("ValidateStatus(tardy) = %v, want ErrInvalidStatus", err)
	}
}
