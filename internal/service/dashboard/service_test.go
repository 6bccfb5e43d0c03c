package dashboard

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/vo"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// mockStore implements port.Store over fixed slices for testing
type mockStore struct {
	courses     []domain.Course
	students    []domain.Student
	enrollments []domain.Enrollment
	payments    []domain.Payment
	err         error
}

func (m *mockStore) Courses() port.CourseRepository         { return &mockCourses{m} }
func (m *mockStore) Students() port.StudentRepository       { return &mockStudents{m} }
func (m *mockStore) Enrollments() port.EnrollmentRepository { return &mockEnrollments{m} }
func (m *mockStore) Payments() port.PaymentRepository       { return &mockPayments{m} }
func (m *mockStore) Reminders() port.ReminderRepository     { return nil }
func (m *mockStore) Ping() error                            { return nil }

type mockCourses struct{ m *mockStore }

func (r *mockCourses) GetAll() ([]domain.Course, error)            { return r.m.courses, r.m.err }
func (r *mockCourses) GetByID(id string) (*domain.Course, error)   { return nil, nil }
func (r *mockCourses) Create(domain.NewCourse) (*domain.Course, error) { return nil, nil }
func (r *mockCourses) Update(string, domain.CourseUpdate) (*domain.Course, error) {
	return nil, nil
}
func (r *mockCourses) Delete(string) (bool, error) { return false, nil }
func (r *mockCourses) RecountOccupancy(string) (*domain.Course, error) { return nil, nil }

type mockStudents struct{ m *mockStore }

func (r *mockStudents) GetAll() ([]domain.Student, error)              { return r.m.students, nil }
func (r *mockStudents) GetByID(id string) (*domain.Student, error)     { return nil, nil }
func (r *mockStudents) Create(domain.NewStudent) (*domain.Student, error) { return nil, nil }
func (r *mockStudents) Update(string, domain.StudentUpdate) (*domain.Student, error) {
	return nil, nil
}
func (r *mockStudents) Delete(string) (bool, error) { return false, nil }

type mockEnrollments struct{ m *mockStore }

func (r *mockEnrollments) GetAll() ([]domain.Enrollment, error)          { return r.m.enrollments, nil }
func (r *mockEnrollments) GetByID(string) (*domain.Enrollment, error)    { return nil, nil }
func (r *mockEnrollments) GetByStudentID(string) ([]domain.Enrollment, error) { return nil, nil }
func (r *mockEnrollments) GetByCourseID(string) ([]domain.Enrollment, error)  { return nil, nil }
func (r *mockEnrollments) Create(domain.NewEnrollment) (*domain.Enrollment, error) {
	return nil, nil
}
func (r *mockEnrollments) Update(string, domain.EnrollmentUpdate) (*domain.Enrollment, error) {
	return nil, nil
}

type mockPayments struct{ m *mockStore }

func (r *mockPayments) GetAll() ([]domain.Payment, error)                 { return r.m.payments, nil }
func (r *mockPayments) GetByEnrollmentID(string) ([]domain.Payment, error) { return nil, nil }
func (r *mockPayments) Create(domain.NewPayment) (*domain.Payment, error)  { return nil, nil }

func fixture() *mockStore {
	return &mockStore{
		courses: []domain.Course{
			{ID: "c-1", Name: "Web", Status: domain.CourseActive, CurrentStudents: 18, MaxStudents: 25},
			{ID: "c-2", Name: "UX", Status: domain.CourseActive, CurrentStudents: 15, MaxStudents: 20},
			{ID: "c-3", Name: "Old", Status: domain.CourseCompleted, CurrentStudents: 10, MaxStudents: 10},
		},
		students: []domain.Student{
			{ID: "s-1", FirstName: "Ana", LastName: "Martínez"},
			{ID: "s-2", FirstName: "Juan", LastName: "Pérez"},
		},
		enrollments: []domain.Enrollment{
			{ID: "e-1", StudentID: "s-1", CourseID: "c-1", EnrollmentDate: vo.MustDate("2024-03-01"),
				TotalAmount: 45000, PaidAmount: 5625, PendingAmount: 39375},
			{ID: "e-2", StudentID: "s-2", CourseID: "c-2", EnrollmentDate: vo.MustDate("2024-03-02"),
				TotalAmount: 35000, PaidAmount: 35000, PendingAmount: 0},
		},
		payments: []domain.Payment{
			{ID: "p-1", StudentID: "s-1", CourseID: "c-1", Amount: 5625,
				CreatedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
			{ID: "p-2", StudentID: "s-2", CourseID: "c-2", Amount: 35000,
				CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		},
	}
}

func TestService_GetStats(t *testing.T) {
	svc := NewService(fixture(), zap.NewNop())

	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	want := domain.DashboardStats{
		TotalCourses:     3,
		TotalStudents:    2,
		TotalEnrollments: 2,
		TotalRevenue:     40625,
		PendingPayments:  39375,
		ActiveCourses:    2,
	}
	if *stats != want {
		t.Errorf("GetStats() = %+v, want %+v", *stats, want)
	}
}

func TestService_GetStatsEmpty(t *testing.T) {
	svc := NewService(&mockStore{}, zap.NewNop())

	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if *stats != (domain.DashboardStats{}) {
		t.Errorf("GetStats() = %+v, want zero stats", *stats)
	}
}

func TestService_GetStatsError(t *testing.T) {
	store := fixture()
	store.err = domain.ErrCorruptCollection
	svc := NewService(store, zap.NewNop())

	if _, err := svc.GetStats(); !errors.Is(err, domain.ErrCorruptCollection) {
		t.Errorf("GetStats() error = %v, want ErrCorruptCollection", err)
	}
}

func TestService_RecentActivity(t *testing.T) {
	svc := NewService(fixture(), zap.NewNop())

	items, err := svc.RecentActivity(0)
	if err != nil {
		t.Fatalf("RecentActivity() error = %v", err)
	}

	wantIDs := []string{"p-1", "e-2", "p-2", "e-1"}
	if len(items) != len(wantIDs) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(wantIDs))
	}
	for i, id := range wantIDs {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, id)
		}
	}
	if items[0].StudentName != "Ana Martínez" || items[0].CourseName != "Web" {
		t.Errorf("items[0] = %+v", items[0])
	}

	limited, _ := svc.RecentActivity(2)
	if len(limited) != 2 || limited[0].ID != "p-1" {
		t.Errorf("RecentActivity(2) = %+v", limited)
	}
}

func TestService_RecentActivityWindow(t *testing.T) {
	store := &mockStore{}
	for i := 0; i < 7; i++ {
		store.payments = append(store.payments, domain.Payment{
			ID:        string(rune('a' + i)),
			CreatedAt: time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	svc := NewService(store, zap.NewNop())

	items, _ := svc.RecentActivity(10)
	if len(items) != activityWindow {
		t.Fatalf("len(items) = %d, want %d", len(items), activityWindow)
	}
	if items[0].ID != "g" || items[4].ID != "c" {
		t.Errorf("first/last = %s/%s, want g/c", items[0].ID, items[4].ID)
	}
}

func TestService_Debtors(t *testing.T) {
	svc := NewService(fixture(), zap.NewNop())

	debtors, err := svc.Debtors(0)
	if err != nil {
		t.Fatalf("Debtors() error = %v", err)
	}
	if len(debtors) != 1 {
		t.Fatalf("len(debtors) = %d, want 1", len(debtors))
	}
	want := domain.Debtor{EnrollmentID: "e-1", StudentName: "Ana Martínez", CourseName: "Web", PendingAmount: 39375}
	if debtors[0] != want {
		t.Errorf("debtors[0] = %+v, want %+v", debtors[0], want)
	}
}

func TestService_DebtorsLimit(t *testing.T) {
	store := &mockStore{}
	for i := 0; i < 8; i++ {
		store.enrollments = append(store.enrollments, domain.Enrollment{ID: string(rune('a' + i)), PendingAmount: 100})
	}
	svc := NewService(store, zap.NewNop())

	debtors, _ := svc.Debtors(0)
	if len(debtors) != DefaultDebtorLimit {
		t.Errorf("len(debtors) = %d, want %d", len(debtors), DefaultDebtorLimit)
	}
}

func TestService_CourseOccupancy(t *testing.T) {
	svc := NewService(fixture(), zap.NewNop())

	occ, err := svc.CourseOccupancy()
	if err != nil {
		t.Fatalf("CourseOccupancy() error = %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("len(occupancy) = %d, want 2 active courses", len(occ))
	}
	if occ[0].CourseID != "c-1" || occ[0].Ratio != 0.72 {
		t.Errorf("occ[0] = %+v, want c-1 at 0.72", occ[0])
	}
	if occ[1].Ratio != 0.75 {
		t.Errorf("occ[1].Ratio = %v, want 0.75", occ[1].Ratio)
	}
	if occ[0].AvailableSeats != 7 || occ[1].AvailableSeats != 5 {
		t.Errorf("available seats = %d/%d, want 7/5", occ[0].AvailableSeats, occ[1].AvailableSeats)
	}
}
