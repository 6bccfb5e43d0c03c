package store

import (
	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/aggregate"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// PaymentRepo implements port.PaymentRepository
type PaymentRepo struct {
	s *Store
}

// Ensure PaymentRepo implements port.PaymentRepository
var _ port.PaymentRepository = (*PaymentRepo)(nil)

// GetAll returns every payment
func (r *PaymentRepo) GetAll() ([]domain.Payment, error) {
	return Load[domain.Payment](r.s.kv, KeyPayments)
}

// GetByEnrollmentID returns the payments made for an enrollment
func (r *PaymentRepo) GetByEnrollmentID(enrollmentID string) ([]domain.Payment, error) {
	payments, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	return filter(payments, func(p *domain.Payment) bool { return p.EnrollmentID == enrollmentID }), nil
}

// Create stores a new payment and applies its amount to the enrollment.
// Nothing is written if the policy rejects the payment.
func (r *PaymentRepo) Create(in domain.NewPayment) (*domain.Payment, error) {
	payment := domain.Payment{
		ID:            r.s.newID(),
		EnrollmentID:  in.EnrollmentID,
		StudentID:     in.StudentID,
		CourseID:      in.CourseID,
		Amount:        in.Amount,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.PaymentMethod,
		Module:        in.Module,
		Description:   in.Description,
		ReceiptPath:   in.ReceiptPath,
		CreatedAt:     r.s.now(),
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = r.s.today()
	}
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = domain.PaymentCash
	}

	var events []event.DomainEvent
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		enrollments, err := Load[domain.Enrollment](tx, KeyEnrollments)
		if err != nil {
			return err
		}
		idx := indexOf(enrollments, func(e *domain.Enrollment) bool { return e.ID == in.EnrollmentID })
		if idx < 0 {
			if err := r.s.policy.CanPay(nil, in.EnrollmentID, in.Amount); err != nil {
				return err
			}
			return r.appendPayment(tx, payment)
		}

		account, err := aggregate.NewEnrollmentAccount(&enrollments[idx])
		if err != nil {
			return err
		}
		if err := account.ApplyPayment(r.s.policy, &payment); err != nil {
			return err
		}
		if payment.StudentID == "" {
			payment.StudentID = enrollments[idx].StudentID
		}
		if payment.CourseID == "" {
			payment.CourseID = enrollments[idx].CourseID
		}

		if err := r.appendPayment(tx, payment); err != nil {
			return err
		}
		if err := Save(tx, KeyEnrollments, enrollments); err != nil {
			return err
		}
		events = account.GetPendingEvents()
		account.ClearEvents()
		if account.IsSettled() {
			r.s.logger.Debug("enrollment settled",
				zap.String("enrollment_id", in.EnrollmentID),
				zap.String("payment_id", payment.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.s.dispatcher.DispatchAll(events)
	return &payment, nil
}

func (r *PaymentRepo) appendPayment(tx port.KeyValue, payment domain.Payment) error {
	payments, err := Load[domain.Payment](tx, KeyPayments)
	if err != nil {
		return err
	}
	return Save(tx, KeyPayments, append(payments, payment))
}
