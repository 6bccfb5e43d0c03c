package domain

import (
	"math"

	"github.com/vertextoedge/academic-admin/internal/domain/vo"
)

// MoneyTolerance is the largest difference treated as equal when comparing amounts
const MoneyTolerance = 0.005

// EnrollmentStatus is the state of a student's registration in a course
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment is a student's registration in a course together with its balance.
// PaidAmount + PendingAmount == TotalAmount must hold after every write.
type Enrollment struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"studentId"`
	CourseID       string           `json:"courseId"`
	EnrollmentDate vo.Date          `json:"enrollmentDate"`
	Status         EnrollmentStatus `json:"status"`
	TotalAmount    float64          `json:"totalAmount"`
	PaidAmount     float64          `json:"paidAmount"`
	PendingAmount  float64          `json:"pendingAmount"`
}

// IsActive returns true if the enrollment is active
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentActive
}

// HasDebt returns true if part of the total is still pending
func (e *Enrollment) HasDebt() bool {
	return e.PendingAmount > MoneyTolerance
}

// IsBalanced returns true if paid + pending equals total
func (e *Enrollment) IsBalanced() bool {
	return math.Abs(e.PaidAmount+e.PendingAmount-e.TotalAmount) <= MoneyTolerance
}

// ApplyPayment adds amount to the paid total and recomputes the pending balance
// from the total. It does not check amount against the pending balance.
func (e *Enrollment) ApplyPayment(amount float64) {
	e.PaidAmount += amount
	e.PendingAmount = e.TotalAmount - e.PaidAmount
}

// NewEnrollment holds the caller-supplied fields of an enrollment
type NewEnrollment struct {
	StudentID      string           `json:"studentId" validate:"required"`
	CourseID       string           `json:"courseId" validate:"required"`
	EnrollmentDate vo.Date          `json:"enrollmentDate"`
	Status         EnrollmentStatus `json:"status" validate:"oneof=active completed dropped"`
	TotalAmount    float64          `json:"totalAmount" validate:"gte=0"`
	PaidAmount     float64          `json:"paidAmount" validate:"gte=0"`
	PendingAmount  float64          `json:"pendingAmount" validate:"gte=0"`
}

// EnrollmentUpdate is a partial enrollment update; nil fields are left unchanged.
// Paid and pending amounts are not recomputed, callers keep them consistent.
type EnrollmentUpdate struct {
	StudentID      *string           `json:"studentId,omitempty"`
	CourseID       *string           `json:"courseId,omitempty"`
	EnrollmentDate *vo.Date          `json:"enrollmentDate,omitempty"`
	Status         *EnrollmentStatus `json:"status,omitempty"`
	TotalAmount    *float64          `json:"totalAmount,omitempty"`
	PaidAmount     *float64          `json:"paidAmount,omitempty"`
	PendingAmount  *float64          `json:"pendingAmount,omitempty"`
}

// Apply merges the set fields into e
func (u *EnrollmentUpdate) Apply(e *Enrollment) {
	if u.StudentID != nil {
		e.StudentID = *u.StudentID
	}
	if u.CourseID != nil {
		e.CourseID = *u.CourseID
	}
	if u.EnrollmentDate != nil {
		e.EnrollmentDate = *u.EnrollmentDate
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.TotalAmount != nil {
		e.TotalAmount = *u.TotalAmount
	}
	if u.PaidAmount != nil {
		e.PaidAmount = *u.PaidAmount
	}
	if u.PendingAmount != nil {
		e.PendingAmount = *u.PendingAmount
	}
}
