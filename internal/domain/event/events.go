package event

import (
	"time"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func newBase() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// CourseCreated is raised when a course is created
type CourseCreated struct {
	BaseEvent
	CourseID string
	Name     string
}

func (e CourseCreated) EventName() string { return "course.created" }

// NewCourseCreated creates a new CourseCreated event
func NewCourseCreated(courseID, name string) CourseCreated {
	return CourseCreated{BaseEvent: newBase(), CourseID: courseID, Name: name}
}

// CourseDeleted is raised when a course is removed
type CourseDeleted struct {
	BaseEvent
	CourseID string
}

func (e CourseDeleted) EventName() string { return "course.deleted" }

// NewCourseDeleted creates a new CourseDeleted event
func NewCourseDeleted(courseID string) CourseDeleted {
	return CourseDeleted{BaseEvent: newBase(), CourseID: courseID}
}

// StudentRegistered is raised when a student is created
type StudentRegistered struct {
	BaseEvent
	StudentID string
	Email     string
}

func (e StudentRegistered) EventName() string { return "student.registered" }

// NewStudentRegistered creates a new StudentRegistered event
func NewStudentRegistered(studentID, email string) StudentRegistered {
	return StudentRegistered{BaseEvent: newBase(), StudentID: studentID, Email: email}
}

// StudentDeleted is raised when a student is removed
type StudentDeleted struct {
	BaseEvent
	StudentID string
}

func (e StudentDeleted) EventName() string { return "student.deleted" }

// NewStudentDeleted creates a new StudentDeleted event
func NewStudentDeleted(studentID string) StudentDeleted {
	return StudentDeleted{BaseEvent: newBase(), StudentID: studentID}
}

// EnrollmentCreated is raised when a student is enrolled in a course
type EnrollmentCreated struct {
	BaseEvent
	EnrollmentID    string
	StudentID       string
	CourseID        string
	TotalAmount     float64
	CurrentStudents int
	MaxStudents     int
}

func (e EnrollmentCreated) EventName() string { return "enrollment.created" }

// NewEnrollmentCreated creates a new EnrollmentCreated event.
// currentStudents is the course counter after the increment.
func NewEnrollmentCreated(enrollmentID, studentID, courseID string, total float64, currentStudents, maxStudents int) EnrollmentCreated {
	return EnrollmentCreated{
		BaseEvent:       newBase(),
		EnrollmentID:    enrollmentID,
		StudentID:       studentID,
		CourseID:        courseID,
		TotalAmount:     total,
		CurrentStudents: currentStudents,
		MaxStudents:     maxStudents,
	}
}

// PaymentRecorded is raised when a payment is applied to an enrollment
type PaymentRecorded struct {
	BaseEvent
	PaymentID     string
	EnrollmentID  string
	Amount        float64
	PaidAmount    float64
	PendingAmount float64
}

func (e PaymentRecorded) EventName() string { return "payment.recorded" }

// NewPaymentRecorded creates a new PaymentRecorded event with the balance after the payment
func NewPaymentRecorded(paymentID, enrollmentID string, amount, paid, pending float64) PaymentRecorded {
	return PaymentRecorded{
		BaseEvent:     newBase(),
		PaymentID:     paymentID,
		EnrollmentID:  enrollmentID,
		Amount:        amount,
		PaidAmount:    paid,
		PendingAmount: pending,
	}
}

// EnrollmentSettled is raised when a payment brings the pending balance to zero
type EnrollmentSettled struct {
	BaseEvent
	EnrollmentID string
	TotalAmount  float64
}

func (e EnrollmentSettled) EventName() string { return "enrollment.settled" }

// NewEnrollmentSettled creates a new EnrollmentSettled event
func NewEnrollmentSettled(enrollmentID string, total float64) EnrollmentSettled {
	return EnrollmentSettled{BaseEvent: newBase(), EnrollmentID: enrollmentID, TotalAmount: total}
}

// ReminderCreated is raised when a payment reminder is recorded
type ReminderCreated struct {
	BaseEvent
	ReminderID    string
	EnrollmentID  string
	Channel       string
	PendingAmount float64
}

func (e ReminderCreated) EventName() string { return "reminder.created" }

// NewReminderCreated creates a new ReminderCreated event
func NewReminderCreated(reminderID, enrollmentID, channel string, pending float64) ReminderCreated {
	return ReminderCreated{
		BaseEvent:     newBase(),
		ReminderID:    reminderID,
		EnrollmentID:  enrollmentID,
		Channel:       channel,
		PendingAmount: pending,
	}
}

// InvariantViolated is raised by the audit when persisted data breaks a rule
type InvariantViolated struct {
	BaseEvent
	Entity   string
	EntityID string
	Rule     string
	Detail   string
}

func (e InvariantViolated) EventName() string { return "invariant.violated" }

// NewInvariantViolated creates a new InvariantViolated event
func NewInvariantViolated(entity, entityID, rule, detail string) InvariantViolated {
	return InvariantViolated{
		BaseEvent: newBase(),
		Entity:    entity,
		EntityID:  entityID,
		Rule:      rule,
		Detail:    detail,
	}
}
