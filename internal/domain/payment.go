package domain

import (
	"time"

	"github.com/vertextoedge/academic-admin/internal/domain/vo"
)

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
	PaymentOther    PaymentMethod = "other"
)

// Payment is an immutable record of money received for an enrollment
type Payment struct {
	ID            string        `json:"id"`
	EnrollmentID  string        `json:"enrollmentId"`
	StudentID     string        `json:"studentId"`
	CourseID      string        `json:"courseId"`
	Amount        float64       `json:"amount"`
	PaymentDate   vo.Date       `json:"paymentDate"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Module        *int          `json:"module,omitempty"`
	Description   string        `json:"description"`
	ReceiptPath   string        `json:"receiptPath,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// NewPayment holds the caller-supplied fields of a payment
type NewPayment struct {
	EnrollmentID  string        `json:"enrollmentId" validate:"required"`
	StudentID     string        `json:"studentId"`
	CourseID      string        `json:"courseId"`
	Amount        float64       `json:"amount" validate:"gt=0"`
	PaymentDate   vo.Date       `json:"paymentDate"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"oneof=cash transfer card other"`
	Module        *int          `json:"module,omitempty" validate:"omitempty,min=1"`
	Description   string        `json:"description" validate:"required"`
	ReceiptPath   string        `json:"receiptPath,omitempty"`
}
