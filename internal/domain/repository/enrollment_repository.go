package repository

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
)

// EnrollmentRepository defines the interface for enrollment persistence operations
type EnrollmentRepository interface {
	// GetAll returns every enrollment in insertion order
	GetAll() ([]domain.Enrollment, error)

	// GetByID returns nil, nil if the enrollment does not exist
	GetByID(id string) (*domain.Enrollment, error)

	// GetByStudentID returns the enrollments of a student
	GetByStudentID(studentID string) ([]domain.Enrollment, error)

	// GetByCourseID returns the enrollments of a course
	GetByCourseID(courseID string) ([]domain.Enrollment, error)

	// Create stores a new enrollment and increments the course's currentStudents
	// in the same transaction
	Create(in domain.NewEnrollment) (*domain.Enrollment, error)

	// Update merges the set fields without recomputing the balance
	// Returns nil, nil if the enrollment does not exist
	Update(id string, u domain.EnrollmentUpdate) (*domain.Enrollment, error)
}
