package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/domain/service"
	"github.com/vertextoedge/academic-admin/internal/domain/vo"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// Config holds store configuration
type Config struct {
	// Policy decides which cross-entity invariants writes enforce
	Policy *service.EnrollmentPolicy

	// Now is the clock used for createdAt and default dates
	Now func() time.Time

	// NewID generates entity identifiers
	NewID func() string
}

// DefaultConfig returns default store configuration
func DefaultConfig() *Config {
	return &Config{
		Policy: service.StrictPolicy(),
		Now:    func() time.Time { return time.Now().UTC() },
		NewID:  uuid.NewString,
	}
}

// Store implements the entity repositories on top of a port.KeyValueStore,
// one JSON collection per entity type
type Store struct {
	kv         port.KeyValueStore
	policy     *service.EnrollmentPolicy
	now        func() time.Time
	newID      func() string
	dispatcher event.EventDispatcher
	logger     *zap.Logger

	courses     *CourseRepo
	students    *StudentRepo
	enrollments *EnrollmentRepo
	payments    *PaymentRepo
	reminders   *ReminderRepo
}

// Ensure Store implements port.Store
var _ port.Store = (*Store)(nil)

// New creates a new Store
func New(kv port.KeyValueStore, cfg *Config, dispatcher event.EventDispatcher, logger *zap.Logger) *Store {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.Policy == nil {
		cfg.Policy = defaults.Policy
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = defaults.NewID
	}
	if dispatcher == nil {
		dispatcher = event.NewNullDispatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		kv:         kv,
		policy:     cfg.Policy,
		now:        cfg.Now,
		newID:      cfg.NewID,
		dispatcher: dispatcher,
		logger:     logger,
	}
	s.courses = &CourseRepo{s: s}
	s.students = &StudentRepo{s: s}
	s.enrollments = &EnrollmentRepo{s: s}
	s.payments = &PaymentRepo{s: s}
	s.reminders = &ReminderRepo{s: s}
	return s
}

// Courses returns the course repository
func (s *Store) Courses() port.CourseRepository { return s.courses }

// Students returns the student repository
func (s *Store) Students() port.StudentRepository { return s.students }

// Enrollments returns the enrollment repository
func (s *Store) Enrollments() port.EnrollmentRepository { return s.enrollments }

// Payments returns the payment repository
func (s *Store) Payments() port.PaymentRepository { return s.payments }

// Reminders returns the reminder repository
func (s *Store) Reminders() port.ReminderRepository { return s.reminders }

// Ping checks storage connectivity
func (s *Store) Ping() error {
	return s.kv.Ping()
}

// Policy returns the invariant policy writes are checked against
func (s *Store) Policy() *service.EnrollmentPolicy {
	return s.policy
}

// Initialize writes every missing collection as an empty array. When the
// courses collection is absent the given courses and students are written
// as initial data. Returns true if initial data was written.
func (s *Store) Initialize(courses []domain.Course, students []domain.Student) (bool, error) {
	seeded := false
	err := s.kv.Update(func(tx port.KeyValue) error {
		_, hasCourses, err := tx.Get(KeyCourses)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", KeyCourses, err)
		}

		if !hasCourses && (len(courses) > 0 || len(students) > 0) {
			now := s.now()
			for i := range courses {
				if courses[i].ID == "" {
					courses[i].ID = s.newID()
				}
				if courses[i].CreatedAt.IsZero() {
					courses[i].CreatedAt = now
				}
			}
			for i := range students {
				if students[i].ID == "" {
					students[i].ID = s.newID()
				}
				if students[i].CreatedAt.IsZero() {
					students[i].CreatedAt = now
				}
			}
			if err := Save(tx, KeyCourses, courses); err != nil {
				return err
			}
			if err := Save(tx, KeyStudents, students); err != nil {
				return err
			}
			seeded = true
		}

		for _, key := range AllKeys {
			_, ok, err := tx.Get(key)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}
			if !ok {
				if err := tx.Set(key, []byte("[]")); err != nil {
					return fmt.Errorf("failed to write %s: %w", key, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.Info("initial data written",
			zap.Int("courses", len(courses)),
			zap.Int("students", len(students)))
	}
	return seeded, nil
}

// today returns the current calendar date
func (s *Store) today() vo.Date {
	return vo.DateOf(s.now())
}
