package maintenance

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/adapter/filesystem"
	"github.com/vertextoedge/academic-admin/internal/adapter/memory"
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/domain/service"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/store"
)

// countingHandler counts invariant violation events
type countingHandler struct {
	mu    sync.Mutex
	count int
}

func (h *countingHandler) Handle(e event.DomainEvent) error {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
	return nil
}

func (h *countingHandler) HandledEvents() []string {
	return []string{"invariant.violated"}
}

func (h *countingHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func newLaxStore(t *testing.T) *store.Store {
	t.Helper()
	st, _ := newLaxStoreKV(t)
	return st
}

func newLaxStoreKV(t *testing.T) (*store.Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	return store.New(kv, &store.Config{Policy: service.LaxPolicy()}, nil, zap.NewNop()), kv
}

// setCurrentStudents overwrites the stored occupancy counter of a course
func setCurrentStudents(t *testing.T, kv *memory.Store, courseID string, n int) {
	t.Helper()
	courses, err := store.Load[domain.Course](kv, store.KeyCourses)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i := range courses {
		if courses[i].ID == courseID {
			courses[i].CurrentStudents = n
		}
	}
	if err := store.Save(kv, store.KeyCourses, courses); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestService_New(t *testing.T) {
	logger := zap.NewNop()

	// Test with nil config (should use defaults)
	s := New(nil, newLaxStore(t), nil, nil, logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.config.AuditInterval != time.Hour {
		t.Errorf("AuditInterval = %v, want %v", s.config.AuditInterval, time.Hour)
	}

	// Test with custom config
	s = New(&Config{AuditInterval: 2 * time.Minute, RepairOccupancy: true}, newLaxStore(t), nil, nil, logger)
	if s.config.AuditInterval != 2*time.Minute || !s.config.RepairOccupancy {
		t.Errorf("config = %+v", s.config)
	}
}

func TestService_AuditClean(t *testing.T) {
	st := newLaxStore(t)
	course, _ := st.Courses().Create(domain.NewCourse{Name: "Web", MaxStudents: 2, Status: domain.CourseActive})
	e, _ := st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID, TotalAmount: 100, PendingAmount: 100})
	st.Payments().Create(domain.NewPayment{EnrollmentID: e.ID, Amount: 40})

	report, err := New(nil, st, nil, nil, zap.NewNop()).Audit()
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if len(report.Violations) != 0 {
		t.Errorf("Violations = %+v, want none", report.Violations)
	}
}

func TestService_AuditViolations(t *testing.T) {
	st, kv := newLaxStoreKV(t)
	course, _ := st.Courses().Create(domain.NewCourse{Name: "Web", MaxStudents: 1, Status: domain.CourseActive})
	st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID, TotalAmount: 100, PendingAmount: 100})
	st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID, TotalAmount: 100, PendingAmount: 100})

	// Break the counter and one balance
	wrong := 5
	setCurrentStudents(t, kv, course.ID, wrong)
	all, _ := st.Enrollments().GetAll()
	paid := 30.0
	st.Enrollments().Update(all[0].ID, domain.EnrollmentUpdate{PaidAmount: &paid})
	st.Payments().Create(domain.NewPayment{EnrollmentID: "ghost", Amount: 10})

	handler := &countingHandler{}
	dispatcher := event.NewInMemoryDispatcher(zap.NewNop())
	dispatcher.Subscribe(handler)

	report, err := New(nil, st, nil, dispatcher, zap.NewNop()).Audit()
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	rules := make(map[string]int)
	for _, v := range report.Violations {
		rules[v.Rule]++
	}
	want := map[string]int{RuleBalance: 1, RuleOccupancy: 1, RuleCapacity: 1, RuleReference: 1}
	for rule, n := range want {
		if rules[rule] != n {
			t.Errorf("violations[%s] = %d, want %d (all: %+v)", rule, rules[rule], n, report.Violations)
		}
	}
	if handler.Count() != len(report.Violations) {
		t.Errorf("dispatched %d events, want %d", handler.Count(), len(report.Violations))
	}
	if report.Repaired != 0 {
		t.Errorf("Repaired = %d without RepairOccupancy", report.Repaired)
	}
}

func TestService_AuditRepairsOccupancy(t *testing.T) {
	st, kv := newLaxStoreKV(t)
	course, _ := st.Courses().Create(domain.NewCourse{Name: "Web", MaxStudents: 10, Status: domain.CourseActive})
	st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID})
	wrong := 7
	setCurrentStudents(t, kv, course.ID, wrong)

	s := New(&Config{RepairOccupancy: true}, st, nil, nil, zap.NewNop())
	report, err := s.Audit()
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if report.Repaired != 1 {
		t.Errorf("Repaired = %d, want 1", report.Repaired)
	}

	got, _ := st.Courses().GetByID(course.ID)
	if got.CurrentStudents != 1 {
		t.Errorf("CurrentStudents = %d, want 1", got.CurrentStudents)
	}

	report, _ = s.Audit()
	if len(report.Violations) != 0 {
		t.Errorf("second Audit() violations = %+v", report.Violations)
	}
}

func TestService_StartStop(t *testing.T) {
	st, kv := newLaxStoreKV(t)
	course, _ := st.Courses().Create(domain.NewCourse{Name: "Web", MaxStudents: 10})
	wrong := 3
	setCurrentStudents(t, kv, course.ID, wrong)

	cfg := &Config{
		AuditInterval:   10 * time.Millisecond,
		RepairOccupancy: true,
	}
	s := New(cfg, st, nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	// Start in goroutine
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	// Wait for the audit to run at least once
	time.Sleep(50 * time.Millisecond)

	cancel()
	s.Stop()

	select {
	case <-done:
		// Success
	case <-time.After(time.Second):
		t.Fatal("Start() did not return after Stop()")
	}

	got, _ := st.Courses().GetByID(course.ID)
	if got.CurrentStudents != 0 {
		t.Errorf("CurrentStudents = %d, want 0 after periodic repair", got.CurrentStudents)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.AuditInterval != time.Hour {
		t.Errorf("AuditInterval = %v, want %v", cfg.AuditInterval, time.Hour)
	}
	if cfg.RepairOccupancy {
		t.Error("RepairOccupancy should default to false")
	}
	if cfg.BackupInterval != 24*time.Hour || cfg.BackupKeep != 7 {
		t.Errorf("backup defaults = %v / %d", cfg.BackupInterval, cfg.BackupKeep)
	}
}

func TestService_Backup(t *testing.T) {
	st := newLaxStore(t)
	course, _ := st.Courses().Create(domain.NewCourse{Name: "Web", MaxStudents: 2, Status: domain.CourseActive})
	st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID, TotalAmount: 100, PendingAmount: 100})

	snapshots, err := filesystem.NewManager(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s := New(&Config{BackupKeep: 2, Now: func() time.Time { return now }}, st, snapshots, nil, zap.NewNop())

	path, err := s.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if filepath.Base(path) != "snapshot-20240310T090000Z.json" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(snap.Courses) != 1 || len(snap.Enrollments) != 1 || !snap.TakenAt.Equal(now) {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Payments == nil || snap.Reminders == nil {
		t.Errorf("empty collections should encode as [], got %+v", snap)
	}

	// Two more runs; only BackupKeep snapshots remain
	for i := 1; i <= 2; i++ {
		now = now.Add(time.Hour)
		p, err := s.Backup()
		if err != nil {
			t.Fatalf("Backup() run %d error = %v", i, err)
		}
		mt := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(p, mt, mt)
	}
	list, err := snapshots.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(list) > 2 {
		t.Errorf("snapshots = %d, want at most 2", len(list))
	}
}

func TestService_BackupDisabled(t *testing.T) {
	s := New(nil, newLaxStore(t), nil, nil, zap.NewNop())
	if _, err := s.Backup(); err == nil {
		t.Fatal("Backup() without snapshot store error = nil")
	}
}

// staleStore serves an enrollment list missing the newest entry, as if an
// enrollment was created after the audit read it
type staleStore struct {
	port.Store
}

func (s staleStore) Enrollments() port.EnrollmentRepository {
	return staleEnrollments{s.Store.Enrollments()}
}

type staleEnrollments struct {
	port.EnrollmentRepository
}

func (e staleEnrollments) GetAll() ([]domain.Enrollment, error) {
	all, err := e.EnrollmentRepository.GetAll()
	if err != nil || len(all) == 0 {
		return all, err
	}
	return all[:len(all)-1], nil
}

func TestService_RepairCountsLatestEnrollments(t *testing.T) {
	st, kv := newLaxStoreKV(t)
	course, _ := st.Courses().Create(domain.NewCourse{Name: "Web", MaxStudents: 10, Status: domain.CourseActive})
	st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID})
	st.Enrollments().Create(domain.NewEnrollment{CourseID: course.ID})
	setCurrentStudents(t, kv, course.ID, 0)

	s := New(&Config{RepairOccupancy: true}, staleStore{st}, nil, nil, zap.NewNop())
	report, err := s.Audit()
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if report.Repaired != 1 {
		t.Fatalf("Repaired = %d, want 1", report.Repaired)
	}

	got, _ := st.Courses().GetByID(course.ID)
	if got.CurrentStudents != 2 {
		t.Errorf("CurrentStudents = %d, want 2 from the stored enrollments", got.CurrentStudents)
	}
}
