package repository

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
)

// CourseRepository defines the interface for course persistence operations
type CourseRepository interface {
	// GetAll returns every course in insertion order
	GetAll() ([]domain.Course, error)

	// GetByID retrieves a course by ID
	// Returns nil, nil if the course does not exist
	GetByID(id string) (*domain.Course, error)

	// Create stores a new course with a generated ID, zero students and the current time
	Create(in domain.NewCourse) (*domain.Course, error)

	// Update merges the set fields of u into the course
	// Returns nil, nil if the course does not exist
	Update(id string, u domain.CourseUpdate) (*domain.Course, error)

	// RecountOccupancy sets currentStudents to the number of enrollments
	// referencing the course, counted in the same transaction
	// Returns nil, nil if the course does not exist
	RecountOccupancy(id string) (*domain.Course, error)

	// Delete removes a course by ID
	// Returns false without writing if no course matched
	Delete(id string) (bool, error)
}
