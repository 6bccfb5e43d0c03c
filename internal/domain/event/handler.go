package event

import (
	"sync"

	"go.uber.org/zap"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case CourseCreated:
		h.logger.Info("course created",
			zap.String("course_id", e.CourseID),
			zap.String("name", e.Name),
		)
	case CourseDeleted:
		h.logger.Info("course deleted", zap.String("course_id", e.CourseID))
	case StudentRegistered:
		h.logger.Info("student registered",
			zap.String("student_id", e.StudentID),
			zap.String("email", e.Email),
		)
	case StudentDeleted:
		h.logger.Info("student deleted", zap.String("student_id", e.StudentID))
	case EnrollmentCreated:
		h.logger.Info("enrollment created",
			zap.String("enrollment_id", e.EnrollmentID),
			zap.String("student_id", e.StudentID),
			zap.String("course_id", e.CourseID),
			zap.Float64("total_amount", e.TotalAmount),
			zap.Int("current_students", e.CurrentStudents),
			zap.Int("max_students", e.MaxStudents),
		)
	case PaymentRecorded:
		h.logger.Info("payment recorded",
			zap.String("payment_id", e.PaymentID),
			zap.String("enrollment_id", e.EnrollmentID),
			zap.Float64("amount", e.Amount),
			zap.Float64("paid_amount", e.PaidAmount),
			zap.Float64("pending_amount", e.PendingAmount),
		)
	case EnrollmentSettled:
		h.logger.Info("enrollment settled",
			zap.String("enrollment_id", e.EnrollmentID),
			zap.Float64("total_amount", e.TotalAmount),
		)
	case ReminderCreated:
		h.logger.Debug("payment reminder created",
			zap.String("reminder_id", e.ReminderID),
			zap.String("enrollment_id", e.EnrollmentID),
			zap.String("channel", e.Channel),
			zap.Float64("pending_amount", e.PendingAmount),
		)
	case InvariantViolated:
		h.logger.Warn("invariant violated",
			zap.String("entity", e.Entity),
			zap.String("entity_id", e.EntityID),
			zap.String("rule", e.Rule),
			zap.String("detail", e.Detail),
		)
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{"*"}
}

// MetricsHandler counts events since process start
type MetricsHandler struct {
	mu                  sync.Mutex
	coursesCreated      int64
	studentsRegistered  int64
	enrollmentsCreated  int64
	paymentsRecorded    int64
	enrollmentsSettled  int64
	remindersCreated    int64
	invariantViolations int64
	amountCollected     float64
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// Handle updates metrics based on the event
func (h *MetricsHandler) Handle(event DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch e := event.(type) {
	case CourseCreated:
		h.coursesCreated++
	case StudentRegistered:
		h.studentsRegistered++
	case EnrollmentCreated:
		h.enrollmentsCreated++
	case PaymentRecorded:
		h.paymentsRecorded++
		h.amountCollected += e.Amount
	case EnrollmentSettled:
		h.enrollmentsSettled++
	case ReminderCreated:
		h.remindersCreated++
	case InvariantViolated:
		h.invariantViolations++
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *MetricsHandler) HandledEvents() []string {
	return []string{
		"course.created",
		"student.registered",
		"enrollment.created",
		"payment.recorded",
		"enrollment.settled",
		"reminder.created",
		"invariant.violated",
	}
}

// GetMetrics returns current metrics
func (h *MetricsHandler) GetMetrics() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()

	return map[string]any{
		"courses_created":      h.coursesCreated,
		"students_registered":  h.studentsRegistered,
		"enrollments_created":  h.enrollmentsCreated,
		"payments_recorded":    h.paymentsRecorded,
		"enrollments_settled":  h.enrollmentsSettled,
		"reminders_created":    h.remindersCreated,
		"invariant_violations": h.invariantViolations,
		"amount_collected":     h.amountCollected,
	}
}
