package dashboard

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// Default list sizes
const (
	DefaultActivityLimit = 8
	DefaultDebtorLimit   = 5

	// activityWindow is how many of the latest payments and enrollments
	// are considered for the activity feed
	activityWindow = 5
)

// Service computes dashboard aggregates from the current store contents.
// Nothing is cached.
type Service struct {
	store  port.Store
	logger *zap.Logger
}

// NewService creates a new dashboard service
func NewService(store port.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// GetStats folds the four collections into dashboard figures
func (s *Service) GetStats() (*domain.DashboardStats, error) {
	courses, err := s.store.Courses().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	students, err := s.store.Students().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}
	enrollments, err := s.store.Enrollments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	payments, err := s.store.Payments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	stats := &domain.DashboardStats{
		TotalCourses:     len(courses),
		TotalStudents:    len(students),
		TotalEnrollments: len(enrollments),
	}
	for _, p := range payments {
		stats.TotalRevenue += p.Amount
	}
	for _, e := range enrollments {
		stats.PendingPayments += e.PendingAmount
	}
	for i := range courses {
		if courses[i].IsActive() {
			stats.ActiveCourses++
		}
	}
	return stats, nil
}

// RecentActivity merges the latest payments and enrollments, newest first.
// limit <= 0 means DefaultActivityLimit.
func (s *Service) RecentActivity(limit int) ([]domain.ActivityItem, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	names, err := s.loadNames()
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	enrollments, err := s.store.Enrollments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}

	items := make([]domain.ActivityItem, 0, 2*activityWindow)
	for _, p := range latest(payments, activityWindow) {
		items = append(items, domain.ActivityItem{
			Kind:        domain.ActivityPayment,
			ID:          p.ID,
			StudentName: names.student(p.StudentID),
			CourseName:  names.course(p.CourseID),
			Amount:      p.Amount,
			Date:        p.CreatedAt,
		})
	}
	for _, e := range latest(enrollments, activityWindow) {
		items = append(items, domain.ActivityItem{
			Kind:        domain.ActivityEnrollment,
			ID:          e.ID,
			StudentName: names.student(e.StudentID),
			CourseName:  names.course(e.CourseID),
			Amount:      e.TotalAmount,
			Date:        e.EnrollmentDate.Time(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Debtors lists enrollments with a pending balance in stored order.
// limit <= 0 means DefaultDebtorLimit.
func (s *Service) Debtors(limit int) ([]domain.Debtor, error) {
	if limit <= 0 {
		limit = DefaultDebtorLimit
	}

	names, err := s.loadNames()
	if err != nil {
		return nil, err
	}
	enrollments, err := s.store.Enrollments().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}

	debtors := make([]domain.Debtor, 0)
	for _, e := range enrollments {
		if !e.HasDebt() {
			continue
		}
		debtors = append(debtors, domain.Debtor{
			EnrollmentID:  e.ID,
			StudentName:   names.student(e.StudentID),
			CourseName:    names.course(e.CourseID),
			PendingAmount: e.PendingAmount,
		})
		if len(debtors) == limit {
			break
		}
	}
	return debtors, nil
}

// CourseOccupancy reports currentStudents / maxStudents for every active course
func (s *Service) CourseOccupancy() ([]domain.CourseOccupancy, error) {
	courses, err := s.store.Courses().GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}

	out := make([]domain.CourseOccupancy, 0)
	for i := range courses {
		c := &courses[i]
		if !c.IsActive() {
			continue
		}
		out = append(out, domain.CourseOccupancy{
			CourseID:        c.ID,
			Name:            c.Name,
			CurrentStudents: c.CurrentStudents,
			MaxStudents:     c.MaxStudents,
			AvailableSeats:  c.AvailableSeats(),
			Ratio:           c.Occupancy(),
		})
	}
	return out, nil
}

// nameIndex resolves ids to display names
type nameIndex struct {
	students map[string]string
	courses  map[string]string
}

func (n nameIndex) student(id string) string { return n.students[id] }
func (n nameIndex) course(id string) string  { return n.courses[id] }

func (s *Service) loadNames() (nameIndex, error) {
	students, err := s.store.Students().GetAll()
	if err != nil {
		return nameIndex{}, fmt.Errorf("failed to get students: %w", err)
	}
	courses, err := s.store.Courses().GetAll()
	if err != nil {
		return nameIndex{}, fmt.Errorf("failed to get courses: %w", err)
	}

	idx := nameIndex{
		students: make(map[string]string, len(students)),
		courses:  make(map[string]string, len(courses)),
	}
	for i := range students {
		idx.students[students[i].ID] = students[i].FullName()
	}
	for _, c := range courses {
		idx.courses[c.ID] = c.Name
	}
	return idx, nil
}

// latest returns the last n items, most recent first
func latest[T any](items []T, n int) []T {
	start := len(items) - n
	if start < 0 {
		start = 0
	}
	out := make([]T, 0, len(items)-start)
	for i := len(items) - 1; i >= start; i-- {
		out = append(out, items[i])
	}
	return out
}
