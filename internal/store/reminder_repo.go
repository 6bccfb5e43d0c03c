package store

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// ReminderRepo implements port.ReminderRepository
type ReminderRepo struct {
	s *Store
}

// Ensure ReminderRepo implements port.ReminderRepository
var _ port.ReminderRepository = (*ReminderRepo)(nil)

// GetAll returns every reminder
func (r *ReminderRepo) GetAll() ([]domain.PaymentReminder, error) {
	return Load[domain.PaymentReminder](r.s.kv, KeyReminders)
}

// GetByEnrollmentID returns the reminders of an enrollment
func (r *ReminderRepo) GetByEnrollmentID(enrollmentID string) ([]domain.PaymentReminder, error) {
	reminders, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	return filter(reminders, func(rm *domain.PaymentReminder) bool { return rm.EnrollmentID == enrollmentID }), nil
}

// Create stores a new unsent reminder
func (r *ReminderRepo) Create(in domain.NewReminder) (*domain.PaymentReminder, error) {
	reminder := domain.PaymentReminder{
		ID:           r.s.newID(),
		EnrollmentID: in.EnrollmentID,
		StudentID:    in.StudentID,
		CourseID:     in.CourseID,
		ReminderDate: in.ReminderDate,
		ReminderType: in.ReminderType,
		Message:      in.Message,
	}
	if reminder.ReminderDate.IsZero() {
		reminder.ReminderDate = r.s.today()
	}

	var pending float64
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		enrollments, err := Load[domain.Enrollment](tx, KeyEnrollments)
		if err != nil {
			return err
		}
		if idx := indexOf(enrollments, func(e *domain.Enrollment) bool { return e.ID == in.EnrollmentID }); idx >= 0 {
			pending = enrollments[idx].PendingAmount
		}

		reminders, err := Load[domain.PaymentReminder](tx, KeyReminders)
		if err != nil {
			return err
		}
		return Save(tx, KeyReminders, append(reminders, reminder))
	})
	if err != nil {
		return nil, err
	}

	r.s.dispatcher.Dispatch(event.NewReminderCreated(reminder.ID, reminder.EnrollmentID,
		string(reminder.ReminderType), pending))
	return &reminder, nil
}

// MarkSent flags a reminder as sent now
func (r *ReminderRepo) MarkSent(id string) (*domain.PaymentReminder, error) {
	var updated *domain.PaymentReminder
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		reminders, err := Load[domain.PaymentReminder](tx, KeyReminders)
		if err != nil {
			return err
		}
		idx := indexOf(reminders, func(rm *domain.PaymentReminder) bool { return rm.ID == id })
		if idx < 0 {
			return nil
		}
		reminders[idx].MarkSent(r.s.now())
		if err := Save(tx, KeyReminders, reminders); err != nil {
			return err
		}
		rm := reminders[idx]
		updated = &rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
