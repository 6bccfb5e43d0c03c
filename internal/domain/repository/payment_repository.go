package repository

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
)

// PaymentRepository defines the interface for payment persistence operations.
// Payments are immutable once created.
type PaymentRepository interface {
	// GetAll returns every payment in insertion order
	GetAll() ([]domain.Payment, error)

	// GetByEnrollmentID returns the payments made for an enrollment
	GetByEnrollmentID(enrollmentID string) ([]domain.Payment, error)

	// Create stores a new payment and applies its amount to the enrollment balance
	// in the same transaction
	Create(in domain.NewPayment) (*domain.Payment, error)
}
