package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/vo"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/util/ratelimiter"
)

// Config contains reminder service configuration
type Config struct {
	// Schedule is the cron spec of the scan, e.g. "@daily" or "0 9 * * 1-5"
	Schedule string

	// Channel is the reminder type of created reminders
	Channel domain.ReminderType

	// MinInterval is the minimum time between two reminders for one enrollment
	MinInterval time.Duration

	// Now is the clock used for reminder dates and throttling
	Now func() time.Time
}

// DefaultConfig returns default reminder configuration
func DefaultConfig() *Config {
	return &Config{
		Schedule:    "@daily",
		Channel:     domain.ReminderWhatsApp,
		MinInterval: 7 * 24 * time.Hour,
		Now:         time.Now,
	}
}

// RunResult summarizes one scan
type RunResult struct {
	Created   int `json:"created"`
	Sent      int `json:"sent"`
	Throttled int `json:"throttled"`
	Failed    int `json:"failed"`
}

// Service periodically records payment reminders for enrollments with a
// pending balance
type Service struct {
	config   *Config
	store    port.Store
	notifier Notifier
	limiter  *ratelimiter.Limiter
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	runMu   sync.Mutex
}

// New creates a new reminder Service
func New(cfg *Config, store port.Store, notifier Notifier, logger *zap.Logger) *Service {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.Schedule == "" {
		cfg.Schedule = defaults.Schedule
	}
	if !cfg.Channel.IsValid() {
		cfg.Channel = defaults.Channel
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = defaults.MinInterval
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &Service{
		config:   cfg,
		store:    store,
		notifier: notifier,
		limiter:  ratelimiter.NewWithClock(cfg.MinInterval, cfg.Now),
		logger:   logger,
	}
}

// Start schedules the scan and blocks until ctx is cancelled or Stop is called
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("reminder service already running")
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	c := cron.New()
	if _, err := c.AddFunc(s.config.Schedule, func() { s.run(ctx) }); err != nil {
		s.Stop()
		return fmt.Errorf("invalid reminder schedule %q: %w", s.config.Schedule, err)
	}
	c.Start()

	s.logger.Info("reminder service started",
		zap.String("schedule", s.config.Schedule),
		zap.String("channel", string(s.config.Channel)),
		zap.Duration("min_interval", s.config.MinInterval))

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// Stop stops the reminder service
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

func (s *Service) run(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("reminder scan failed", zap.Error(err))
		return
	}
	if result.Created > 0 || result.Failed > 0 {
		s.logger.Info("reminder scan completed",
			zap.Int("created", result.Created),
			zap.Int("sent", result.Sent),
			zap.Int("throttled", result.Throttled),
			zap.Int("failed", result.Failed),
			zap.Int("tracked", s.limiter.Len()),
			zap.Duration("min_interval", s.limiter.Interval()))
	}
}

// RunOnce creates a reminder for every active enrollment with a pending
// balance that was not reminded within MinInterval. Failures on a single
// enrollment are logged and skipped.
func (s *Service) RunOnce(ctx context.Context) (*RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	existing, err := s.store.Reminders().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders: %w", err)
	}
	for _, r := range existing {
		s.limiter.Record(r.EnrollmentID, r.ReminderDate.Time())
	}

	enrollments, err := s.store.Enrollments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	students, err := s.store.Students().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}
	courses, err := s.store.Courses().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}

	studentByID := make(map[string]*domain.Student, len(students))
	for i := range students {
		studentByID[students[i].ID] = &students[i]
	}
	courseNames := make(map[string]string, len(courses))
	for _, c := range courses {
		courseNames[c.ID] = c.Name
	}

	result := &RunResult{}
	for i := range enrollments {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e := &enrollments[i]
		if !e.IsActive() || !e.HasDebt() {
			continue
		}
		if allowed, _ := s.limiter.Allow(e.ID); !allowed {
			result.Throttled++
			continue
		}

		sent, err := s.remind(ctx, e, studentByID[e.StudentID], courseNames[e.CourseID])
		if err != nil {
			if domain.IsSkippable(err) {
				s.logger.Warn("skipping reminder",
					zap.String("enrollment_id", e.ID),
					zap.Error(err))
				result.Failed++
				continue
			}
			return result, err
		}
		result.Created++
		if sent {
			result.Sent++
		}
	}
	return result, nil
}

// remind records one reminder and hands it to the notifier.
// Returns whether the reminder was marked sent.
func (s *Service) remind(ctx context.Context, e *domain.Enrollment, student *domain.Student, courseName string) (bool, error) {
	reminder, err := s.store.Reminders().Create(domain.NewReminder{
		EnrollmentID: e.ID,
		StudentID:    e.StudentID,
		CourseID:     e.CourseID,
		ReminderDate: vo.DateOf(s.config.Now()),
		ReminderType: s.config.Channel,
		Message:      message(student, courseName, e.PendingAmount),
	})
	if err != nil {
		// nothing was persisted, so the next scan may try again
		s.limiter.Reset(e.ID)
		return false, domain.NewSkippableError(err, "failed to create reminder")
	}

	if err := s.notifier.Notify(ctx, reminder, student); err != nil {
		return false, domain.NewSkippableError(err, "failed to notify")
	}

	if _, err := s.store.Reminders().MarkSent(reminder.ID); err != nil {
		return false, domain.NewSkippableError(err, "failed to mark reminder sent")
	}
	return true, nil
}

func message(student *domain.Student, courseName string, pending float64) string {
	name := "student"
	if student != nil {
		name = student.FirstName
	}
	if courseName == "" {
		courseName = "your course"
	}
	return fmt.Sprintf("Hi %s, you have a pending balance of %.2f for %s.", name, pending, courseName)
}
