package service

import (
	"fmt"

	"github.com/vertextoedge/academic-admin/internal/domain"
)

// EnrollmentPolicy decides which cross-entity invariants are enforced at the
// repository boundary. The zero value is the lax policy: nothing is enforced.
type EnrollmentPolicy struct {
	enforceCapacity     bool
	enforcePaymentBound bool
}

// NewEnrollmentPolicy creates a new EnrollmentPolicy
func NewEnrollmentPolicy(enforceCapacity, enforcePaymentBound bool) *EnrollmentPolicy {
	return &EnrollmentPolicy{
		enforceCapacity:     enforceCapacity,
		enforcePaymentBound: enforcePaymentBound,
	}
}

// StrictPolicy enforces both invariants
func StrictPolicy() *EnrollmentPolicy {
	return NewEnrollmentPolicy(true, true)
}

// LaxPolicy enforces nothing
func LaxPolicy() *EnrollmentPolicy {
	return NewEnrollmentPolicy(false, false)
}

// EnforcesCapacity reports whether currentStudents <= maxStudents is enforced
func (p *EnrollmentPolicy) EnforcesCapacity() bool {
	return p.enforceCapacity
}

// EnforcesPaymentBound reports whether amount <= pendingAmount is enforced
func (p *EnrollmentPolicy) EnforcesPaymentBound() bool {
	return p.enforcePaymentBound
}

// CanEnroll checks whether a new enrollment may be added to course.
// course is nil when the referenced course does not exist.
func (p *EnrollmentPolicy) CanEnroll(course *domain.Course, courseID string) error {
	if !p.enforceCapacity {
		return nil
	}
	if course == nil {
		return fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}
	if course.IsFull() {
		return fmt.Errorf("course %s (%d/%d): %w",
			course.ID, course.CurrentStudents, course.MaxStudents, domain.ErrCourseFull)
	}
	return nil
}

// CanResize checks a course after an update: its capacity must still hold
// the students already enrolled.
func (p *EnrollmentPolicy) CanResize(course *domain.Course) error {
	if !p.enforceCapacity || course.CurrentStudents <= course.MaxStudents {
		return nil
	}
	return fmt.Errorf("course %s: maxStudents %d below %d enrolled: %w",
		course.ID, course.MaxStudents, course.CurrentStudents, domain.ErrCourseFull)
}

// CanPay checks whether amount may be applied to enrollment.
// enrollment is nil when the referenced enrollment does not exist.
func (p *EnrollmentPolicy) CanPay(enrollment *domain.Enrollment, enrollmentID string, amount float64) error {
	if !p.enforcePaymentBound {
		return nil
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if enrollment == nil {
		return fmt.Errorf("enrollment %s: %w", enrollmentID, domain.ErrNotFound)
	}
	if amount > enrollment.PendingAmount+domain.MoneyTolerance {
		return fmt.Errorf("amount %.2f, pending %.2f: %w",
			amount, enrollment.PendingAmount, domain.ErrAmountExceedsPending)
	}
	return nil
}
