package aggregate

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/domain/service"
)

// EnrollmentAccount is an aggregate root that combines an Enrollment with the
// payments applied to it
type EnrollmentAccount struct {
	enrollment *domain.Enrollment
	events     []event.DomainEvent
}

// NewEnrollmentAccount creates a new EnrollmentAccount aggregate
func NewEnrollmentAccount(enrollment *domain.Enrollment) (*EnrollmentAccount, error) {
	if enrollment == nil {
		return nil, domain.ErrNilEnrollment
	}
	return &EnrollmentAccount{
		enrollment: enrollment,
		events:     make([]event.DomainEvent, 0),
	}, nil
}

// Enrollment returns the underlying enrollment
func (a *EnrollmentAccount) Enrollment() *domain.Enrollment {
	return a.enrollment
}

// IsSettled returns true if nothing is pending
func (a *EnrollmentAccount) IsSettled() bool {
	return !a.enrollment.HasDebt()
}

// ApplyPayment applies payment to the enrollment balance if the policy allows it
func (a *EnrollmentAccount) ApplyPayment(policy *service.EnrollmentPolicy, payment *domain.Payment) error {
	if err := policy.CanPay(a.enrollment, a.enrollment.ID, payment.Amount); err != nil {
		return err
	}

	hadDebt := a.enrollment.HasDebt()
	a.enrollment.ApplyPayment(payment.Amount)

	a.addEvent(event.NewPaymentRecorded(
		payment.ID,
		a.enrollment.ID,
		payment.Amount,
		a.enrollment.PaidAmount,
		a.enrollment.PendingAmount,
	))

	if hadDebt && !a.enrollment.HasDebt() {
		a.addEvent(event.NewEnrollmentSettled(a.enrollment.ID, a.enrollment.TotalAmount))
	}
	return nil
}

// GetPendingEvents returns all pending domain events
func (a *EnrollmentAccount) GetPendingEvents() []event.DomainEvent {
	return a.events
}

// ClearEvents clears all pending domain events
func (a *EnrollmentAccount) ClearEvents() {
	a.events = make([]event.DomainEvent, 0)
}

func (a *EnrollmentAccount) addEvent(e event.DomainEvent) {
	a.events = append(a.events, e)
}
