package repository

// Store combines all repository interfaces
type Store interface {
	Courses() CourseRepository
	Students() StudentRepository
	Enrollments() EnrollmentRepository
	Payments() PaymentRepository
	Reminders() ReminderRepository

	// Ping checks storage connectivity
	Ping() error
}
