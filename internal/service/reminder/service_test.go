package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/adapter/memory"
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/service"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/store"
)

// recordingNotifier records notified reminders and optionally fails
type recordingNotifier struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (n *recordingNotifier) Notify(ctx context.Context, r *domain.PaymentReminder, st *domain.Student) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, r.EnrollmentID)
	return nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func setup(t *testing.T) (*store.Store, *testClock, string) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	st := store.New(memory.New(), &store.Config{Policy: service.StrictPolicy(), Now: clock.Now}, nil, zap.NewNop())

	course, err := st.Courses().Create(domain.NewCourse{Name: "Web", Price: 1000, Modules: 2, MaxStudents: 10, Status: domain.CourseActive})
	if err != nil {
		t.Fatalf("Create(course) error = %v", err)
	}
	student, _ := st.Students().Create(domain.NewStudent{FirstName: "Ana", LastName: "Martínez", Phone: "+54 11 1234-5678"})

	owing, err := st.Enrollments().Create(domain.NewEnrollment{
		StudentID: student.ID, CourseID: course.ID, Status: domain.EnrollmentActive,
		TotalAmount: 1000, PendingAmount: 1000,
	})
	if err != nil {
		t.Fatalf("Create(enrollment) error = %v", err)
	}
	paid, _ := st.Enrollments().Create(domain.NewEnrollment{
		StudentID: student.ID, CourseID: course.ID, Status: domain.EnrollmentActive,
		TotalAmount: 1000, PendingAmount: 1000,
	})
	if _, err := st.Payments().Create(domain.NewPayment{EnrollmentID: paid.ID, Amount: 1000, Description: "full"}); err != nil {
		t.Fatalf("Create(payment) error = %v", err)
	}
	st.Enrollments().Create(domain.NewEnrollment{
		StudentID: student.ID, CourseID: course.ID, Status: domain.EnrollmentDropped,
		TotalAmount: 1000, PendingAmount: 1000,
	})
	return st, clock, owing.ID
}

func TestService_RunOnce(t *testing.T) {
	st, clock, owingID := setup(t)
	notifier := &recordingNotifier{}
	svc := New(&Config{Channel: domain.ReminderEmail, Now: clock.Now}, st, notifier, zap.NewNop())

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Created != 1 || result.Sent != 1 {
		t.Errorf("RunOnce() = %+v, want 1 created and sent", result)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != owingID {
		t.Errorf("notified = %v, want [%s]", notifier.notified, owingID)
	}

	reminders, _ := st.Reminders().GetByEnrollmentID(owingID)
	if len(reminders) != 1 {
		t.Fatalf("len(reminders) = %d, want 1", len(reminders))
	}
	r := reminders[0]
	if !r.Sent || r.ReminderType != domain.ReminderEmail || r.Message == "" {
		t.Errorf("reminder = %+v", r)
	}
}

func TestService_RunOnceThrottles(t *testing.T) {
	st, clock, _ := setup(t)
	svc := New(&Config{Now: clock.Now}, st, &recordingNotifier{}, zap.NewNop())

	svc.RunOnce(context.Background())

	clock.now = clock.now.Add(24 * time.Hour)
	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Created != 0 || result.Throttled != 1 {
		t.Errorf("second RunOnce() = %+v, want 1 throttled", result)
	}

	clock.now = clock.now.Add(7 * 24 * time.Hour)
	result, _ = svc.RunOnce(context.Background())
	if result.Created != 1 {
		t.Errorf("RunOnce() after interval = %+v, want 1 created", result)
	}
}

func TestService_RunOnceRestoresFromStore(t *testing.T) {
	st, clock, _ := setup(t)
	New(&Config{Now: clock.Now}, st, &recordingNotifier{}, zap.NewNop()).RunOnce(context.Background())

	// A fresh service sees the persisted reminder
	clock.now = clock.now.Add(48 * time.Hour)
	svc := New(&Config{Now: clock.Now}, st, &recordingNotifier{}, zap.NewNop())
	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Created != 0 || result.Throttled != 1 {
		t.Errorf("RunOnce() = %+v, want 1 throttled", result)
	}
}

func TestService_RunOnceNotifierFailure(t *testing.T) {
	st, clock, owingID := setup(t)
	notifier := &recordingNotifier{err: errors.New("gateway down")}
	svc := New(&Config{Now: clock.Now}, st, notifier, zap.NewNop())

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Failed != 1 || result.Sent != 0 {
		t.Errorf("RunOnce() = %+v, want 1 failed", result)
	}

	reminders, _ := st.Reminders().GetByEnrollmentID(owingID)
	if len(reminders) != 1 || reminders[0].Sent {
		t.Errorf("reminders = %+v, want one unsent", reminders)
	}
}

// flakyStore fails the first reminder write
type flakyStore struct {
	port.Store
	reminders *flakyReminders
}

func (s *flakyStore) Reminders() port.ReminderRepository { return s.reminders }

type flakyReminders struct {
	port.ReminderRepository
	failures int
}

func (r *flakyReminders) Create(in domain.NewReminder) (*domain.PaymentReminder, error) {
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("disk full")
	}
	return r.ReminderRepository.Create(in)
}

func TestService_RunOnceRetriesUnsavedReminder(t *testing.T) {
	st, clock, owingID := setup(t)
	flaky := &flakyStore{Store: st, reminders: &flakyReminders{ReminderRepository: st.Reminders(), failures: 1}}
	svc := New(&Config{Now: clock.Now}, flaky, &recordingNotifier{}, zap.NewNop())

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Failed != 1 || result.Created != 0 {
		t.Errorf("first RunOnce() = %+v, want 1 failed", result)
	}

	// Same day: the failed enrollment is not throttled
	clock.now = clock.now.Add(time.Hour)
	result, err = svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Created != 1 || result.Throttled != 0 {
		t.Errorf("second RunOnce() = %+v, want 1 created", result)
	}
	reminders, _ := st.Reminders().GetByEnrollmentID(owingID)
	if len(reminders) != 1 {
		t.Errorf("len(reminders) = %d, want 1", len(reminders))
	}
}

func TestService_RunOnceCancelled(t *testing.T) {
	st, clock, _ := setup(t)
	svc := New(&Config{Now: clock.Now}, st, &recordingNotifier{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.RunOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("RunOnce() error = %v, want context.Canceled", err)
	}
}

func TestService_StartStop(t *testing.T) {
	st, clock, _ := setup(t)
	svc := New(&Config{Schedule: "@every 1h", Now: clock.Now}, st, nil, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	svc.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("service did not stop")
	}
}

func TestService_StartInvalidSchedule(t *testing.T) {
	st, clock, _ := setup(t)
	svc := New(&Config{Schedule: "not a schedule", Now: clock.Now}, st, nil, zap.NewNop())

	if err := svc.Start(context.Background()); err == nil {
		t.Error("Start() with invalid schedule succeeded")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Schedule != "@daily" {
		t.Errorf("Schedule = %q, want @daily", cfg.Schedule)
	}
	if cfg.MinInterval != 7*24*time.Hour {
		t.Errorf("MinInterval = %v, want 168h", cfg.MinInterval)
	}
	if cfg.Channel != domain.ReminderWhatsApp {
		t.Errorf("Channel = %q, want whatsapp", cfg.Channel)
	}
}
