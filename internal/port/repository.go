package port

import (
	"github.com/vertextoedge/academic-admin/internal/domain/repository"
)

// Repository aliases let services depend on port only

type CourseRepository = repository.CourseRepository

type StudentRepository = repository.StudentRepository

type EnrollmentRepository = repository.EnrollmentRepository

type PaymentRepository = repository.PaymentRepository

type ReminderRepository = repository.ReminderRepository

// Store is the combined repository surface
type Store = repository.Store
