package academy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/vo"
)

// Initializer prepares empty collections and writes initial data when the
// store has never been used
type Initializer interface {
	Initialize(courses []domain.Course, students []domain.Student) (bool, error)
}

// Seed initializes the store, writing the sample courses and students when
// withSampleData is set and the store is new
func (s *Service) Seed(init Initializer, withSampleData bool) (bool, error) {
	var courses []domain.Course
	var students []domain.Student
	if withSampleData {
		courses = SampleCourses()
		students = SampleStudents()
	}

	seeded, err := init.Initialize(courses, students)
	if err != nil {
		return false, fmt.Errorf("failed to initialize store: %w", err)
	}
	if seeded {
		s.logger.Info("sample data loaded",
			zap.Int("courses", len(courses)),
			zap.Int("students", len(students)))
	}
	return seeded, nil
}

// SampleCourses returns the demo courses of a fresh installation.
// No enrollments are seeded, so every course starts empty.
func SampleCourses() []domain.Course {
	return []domain.Course{
		{
			Name:        "Programación Web Full Stack",
			Description: "Curso completo de desarrollo web con React, Node.js y bases de datos",
			Instructor:  "Prof. María González",
			Price:       45000,
			Modules:     8,
			StartDate:   vo.MustDate("2024-03-01"),
			EndDate:     vo.MustDate("2024-06-30"),
			MaxStudents: 25,
			Status:      domain.CourseActive,
		},
		{
			Name:        "Diseño UX/UI",
			Description: "Fundamentos de diseño de experiencia de usuario e interfaces",
			Instructor:  "Prof. Carlos Ruiz",
			Price:       35000,
			Modules:     6,
			StartDate:   vo.MustDate("2024-02-15"),
			EndDate:     vo.MustDate("2024-05-15"),
			MaxStudents: 20,
			Status:      domain.CourseActive,
		},
	}
}

// SampleStudents returns the demo students of a fresh installation
func SampleStudents() []domain.Student {
	return []domain.Student{
		{
			FirstName:        "Ana",
			LastName:         "Martínez",
			Email:            "ana.martinez@email.com",
			Phone:            "+54 11 1234-5678",
			Document:         "12345678",
			DocumentType:     domain.DocumentDNI,
			Address:          "Av. Corrientes 1234, CABA",
			BirthDate:        vo.MustDate("1995-05-15"),
			EmergencyContact: "Pedro Martínez",
			EmergencyPhone:   "+54 11 8765-4321",
		},
		{
			FirstName:        "Juan",
			LastName:         "Pérez",
			Email:            "juan.perez@email.com",
			Phone:            "+54 11 2345-6789",
			Document:         "87654321",
			DocumentType:     domain.DocumentDNI,
			Address:          "Calle Falsa 123, CABA",
			BirthDate:        vo.MustDate("1992-08-22"),
			EmergencyContact: "María Pérez",
			EmergencyPhone:   "+54 11 9876-5432",
		},
	}
}
