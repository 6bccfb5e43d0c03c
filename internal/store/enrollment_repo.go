package store

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// EnrollmentRepo implements port.EnrollmentRepository
type EnrollmentRepo struct {
	s *Store
}

// Ensure EnrollmentRepo implements port.EnrollmentRepository
var _ port.EnrollmentRepository = (*EnrollmentRepo)(nil)

// GetAll returns every enrollment
func (r *EnrollmentRepo) GetAll() ([]domain.Enrollment, error) {
	return Load[domain.Enrollment](r.s.kv, KeyEnrollments)
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepo) GetByID(id string) (*domain.Enrollment, error) {
	enrollments, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	idx := indexOf(enrollments, func(e *domain.Enrollment) bool { return e.ID == id })
	if idx < 0 {
		return nil, nil
	}
	return &enrollments[idx], nil
}

// GetByStudentID returns the enrollments of a student
func (r *EnrollmentRepo) GetByStudentID(studentID string) ([]domain.Enrollment, error) {
	enrollments, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	return filter(enrollments, func(e *domain.Enrollment) bool { return e.StudentID == studentID }), nil
}

// GetByCourseID returns the enrollments of a course
func (r *EnrollmentRepo) GetByCourseID(courseID string) ([]domain.Enrollment, error) {
	enrollments, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	return filter(enrollments, func(e *domain.Enrollment) bool { return e.CourseID == courseID }), nil
}

// Create stores a new enrollment and increments the course's currentStudents.
// Both writes commit together.
func (r *EnrollmentRepo) Create(in domain.NewEnrollment) (*domain.Enrollment, error) {
	enrollment := domain.Enrollment{
		ID:             r.s.newID(),
		StudentID:      in.StudentID,
		CourseID:       in.CourseID,
		EnrollmentDate: in.EnrollmentDate,
		Status:         in.Status,
		TotalAmount:    in.TotalAmount,
		PaidAmount:     in.PaidAmount,
		PendingAmount:  in.PendingAmount,
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = r.s.today()
	}
	if enrollment.Status == "" {
		enrollment.Status = domain.EnrollmentActive
	}

	var created event.EnrollmentCreated
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		courses, err := Load[domain.Course](tx, KeyCourses)
		if err != nil {
			return err
		}
		var course *domain.Course
		if idx := indexOf(courses, func(c *domain.Course) bool { return c.ID == in.CourseID }); idx >= 0 {
			course = &courses[idx]
		}
		if err := r.s.policy.CanEnroll(course, in.CourseID); err != nil {
			return err
		}

		enrollments, err := Load[domain.Enrollment](tx, KeyEnrollments)
		if err != nil {
			return err
		}
		if err := Save(tx, KeyEnrollments, append(enrollments, enrollment)); err != nil {
			return err
		}

		current, maxStudents := 0, 0
		if course != nil {
			course.CurrentStudents++
			if err := Save(tx, KeyCourses, courses); err != nil {
				return err
			}
			current, maxStudents = course.CurrentStudents, course.MaxStudents
		}
		created = event.NewEnrollmentCreated(enrollment.ID, enrollment.StudentID, enrollment.CourseID,
			enrollment.TotalAmount, current, maxStudents)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.s.dispatcher.Dispatch(created)
	return &enrollment, nil
}

// Update merges the set fields of u into the enrollment
func (r *EnrollmentRepo) Update(id string, u domain.EnrollmentUpdate) (*domain.Enrollment, error) {
	var updated *domain.Enrollment
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		enrollments, err := Load[domain.Enrollment](tx, KeyEnrollments)
		if err != nil {
			return err
		}
		idx := indexOf(enrollments, func(e *domain.Enrollment) bool { return e.ID == id })
		if idx < 0 {
			return nil
		}
		u.Apply(&enrollments[idx])
		if err := Save(tx, KeyEnrollments, enrollments); err != nil {
			return err
		}
		e := enrollments[idx]
		updated = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
