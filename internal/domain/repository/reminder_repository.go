package repository

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
)

// ReminderRepository defines the interface for payment reminder persistence
type ReminderRepository interface {
	GetAll() ([]domain.PaymentReminder, error)
	GetByEnrollmentID(enrollmentID string) ([]domain.PaymentReminder, error)
	Create(in domain.NewReminder) (*domain.PaymentReminder, error)

	// MarkSent flags a reminder as sent
	// Returns nil, nil if the reminder does not exist
	MarkSent(id string) (*domain.PaymentReminder, error)
}
