package reminder

import (
	"context"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
)

// Notifier delivers a reminder to a student
type Notifier interface {
	Notify(ctx context.Context, reminder *domain.PaymentReminder, student *domain.Student) error
}

// LogNotifier writes reminders to the log instead of delivering them
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the reminder
func (n *LogNotifier) Notify(ctx context.Context, reminder *domain.PaymentReminder, student *domain.Student) error {
	fields := []zap.Field{
		zap.String("reminder_id", reminder.ID),
		zap.String("enrollment_id", reminder.EnrollmentID),
		zap.String("channel", string(reminder.ReminderType)),
		zap.String("message", reminder.Message),
	}
	if student != nil {
		switch reminder.ReminderType {
		case domain.ReminderEmail:
			fields = append(fields, zap.String("to", student.Email))
		default:
			fields = append(fields, zap.String("to", student.Phone))
		}
	}
	n.logger.Info("payment reminder", fields...)
	return nil
}
