package domain

import (
	"time"

	"github.com/vertextoedge/academic-admin/internal/domain/vo"
)

// ReminderType is the channel a payment reminder is meant for
type ReminderType string

const (
	ReminderWhatsApp ReminderType = "whatsapp"
	ReminderEmail    ReminderType = "email"
)

// IsValid returns true if the type is one of the known channels
func (t ReminderType) IsValid() bool {
	return t == ReminderWhatsApp || t == ReminderEmail
}

// PaymentReminder records a reminder about a pending balance
type PaymentReminder struct {
	ID           string       `json:"id"`
	EnrollmentID string       `json:"enrollmentId"`
	StudentID    string       `json:"studentId"`
	CourseID     string       `json:"courseId"`
	ReminderDate vo.Date      `json:"reminderDate"`
	ReminderType ReminderType `json:"reminderType"`
	Message      string       `json:"message"`
	Sent         bool         `json:"sent"`
	SentAt       *time.Time   `json:"sentAt,omitempty"`
}

// MarkSent flags the reminder as delivered at the given time
func (r *PaymentReminder) MarkSent(at time.Time) {
	r.Sent = true
	r.SentAt = &at
}

// NewReminder holds the caller-supplied fields of a reminder
type NewReminder struct {
	EnrollmentID string
	StudentID    string
	CourseID     string
	ReminderDate vo.Date
	ReminderType ReminderType
	Message      string
}
