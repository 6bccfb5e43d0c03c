package repository

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
)

// StudentRepository defines the interface for student persistence operations.
// Uniqueness of email and document is not checked here.
type StudentRepository interface {
	GetAll() ([]domain.Student, error)

	// GetByID returns nil, nil if the student does not exist
	GetByID(id string) (*domain.Student, error)

	Create(in domain.NewStudent) (*domain.Student, error)

	// Update returns nil, nil if the student does not exist
	Update(id string, u domain.StudentUpdate) (*domain.Student, error)

	// Delete performs no referential check against enrollments
	Delete(id string) (bool, error)
}
