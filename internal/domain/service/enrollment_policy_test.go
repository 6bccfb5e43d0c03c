package service

import (
	"errors"
	"testing"

	"github.com/vertextoedge/academic-admin/internal/domain"
)

func TestEnrollmentPolicy_CanEnroll(t *testing.T) {
	open := &domain.Course{ID: "c-1", CurrentStudents: 9, MaxStudents: 10}
	full := &domain.Course{ID: "c-2", CurrentStudents: 10, MaxStudents: 10}

	tests := []struct {
		name    string
		policy  *EnrollmentPolicy
		course  *domain.Course
		wantErr error
	}{
		{"strict with seats", StrictPolicy(), open, nil},
		{"strict full", StrictPolicy(), full, domain.ErrCourseFull},
		{"strict missing course", StrictPolicy(), nil, domain.ErrNotFound},
		{"lax full", LaxPolicy(), full, nil},
		{"lax missing course", LaxPolicy(), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.CanEnroll(tt.course, "c-x")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("CanEnroll() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("CanEnroll() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnrollmentPolicy_CanPay(t *testing.T) {
	e := &domain.Enrollment{ID: "e-1", TotalAmount: 1000, PaidAmount: 400, PendingAmount: 600}

	tests := []struct {
		name       string
		policy     *EnrollmentPolicy
		enrollment *domain.Enrollment
		amount     float64
		wantErr    error
	}{
		{"partial", StrictPolicy(), e, 100, nil},
		{"exact pending", StrictPolicy(), e, 600, nil},
		{"over pending", StrictPolicy(), e, 600.5, domain.ErrAmountExceedsPending},
		{"zero", StrictPolicy(), e, 0, domain.ErrInvalidAmount},
		{"negative", StrictPolicy(), e, -10, domain.ErrInvalidAmount},
		{"missing enrollment", StrictPolicy(), nil, 10, domain.ErrNotFound},
		{"lax over pending", LaxPolicy(), e, 5000, nil},
		{"capacity only", NewEnrollmentPolicy(true, false), e, 5000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.CanPay(tt.enrollment, "e-x", tt.amount)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("CanPay() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("CanPay() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
