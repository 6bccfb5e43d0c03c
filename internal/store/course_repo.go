package store

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// CourseRepo implements port.CourseRepository
type CourseRepo struct {
	s *Store
}

// Ensure CourseRepo implements port.CourseRepository
var _ port.CourseRepository = (*CourseRepo)(nil)

// GetAll returns every course
func (r *CourseRepo) GetAll() ([]domain.Course, error) {
	return Load[domain.Course](r.s.kv, KeyCourses)
}

// GetByID retrieves a course by ID
func (r *CourseRepo) GetByID(id string) (*domain.Course, error) {
	courses, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	idx := indexOf(courses, func(c *domain.Course) bool { return c.ID == id })
	if idx < 0 {
		return nil, nil
	}
	return &courses[idx], nil
}

// Create stores a new course
func (r *CourseRepo) Create(in domain.NewCourse) (*domain.Course, error) {
	course := domain.Course{
		ID:              r.s.newID(),
		Name:            in.Name,
		Description:     in.Description,
		Instructor:      in.Instructor,
		Price:           in.Price,
		Modules:         in.Modules,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		MaxStudents:     in.MaxStudents,
		CurrentStudents: 0,
		Status:          in.Status,
		CreatedAt:       r.s.now(),
	}
	if course.Status == "" {
		course.Status = domain.CourseActive
	}

	err := r.s.kv.Update(func(tx port.KeyValue) error {
		courses, err := Load[domain.Course](tx, KeyCourses)
		if err != nil {
			return err
		}
		return Save(tx, KeyCourses, append(courses, course))
	})
	if err != nil {
		return nil, err
	}

	r.s.dispatcher.Dispatch(event.NewCourseCreated(course.ID, course.Name))
	return &course, nil
}

// Update merges the set fields of u into the course
func (r *CourseRepo) Update(id string, u domain.CourseUpdate) (*domain.Course, error) {
	var updated *domain.Course
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		courses, err := Load[domain.Course](tx, KeyCourses)
		if err != nil {
			return err
		}
		idx := indexOf(courses, func(c *domain.Course) bool { return c.ID == id })
		if idx < 0 {
			return nil
		}
		u.Apply(&courses[idx])
		if err := r.s.policy.CanResize(&courses[idx]); err != nil {
			return err
		}
		if err := Save(tx, KeyCourses, courses); err != nil {
			return err
		}
		c := courses[idx]
		updated = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecountOccupancy rewrites currentStudents from the enrollments collection
func (r *CourseRepo) RecountOccupancy(id string) (*domain.Course, error) {
	var updated *domain.Course
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		courses, err := Load[domain.Course](tx, KeyCourses)
		if err != nil {
			return err
		}
		idx := indexOf(courses, func(c *domain.Course) bool { return c.ID == id })
		if idx < 0 {
			return nil
		}
		enrollments, err := Load[domain.Enrollment](tx, KeyEnrollments)
		if err != nil {
			return err
		}
		count := len(filter(enrollments, func(e *domain.Enrollment) bool { return e.CourseID == id }))
		c := &courses[idx]
		if c.CurrentStudents != count {
			c.CurrentStudents = count
			if err := Save(tx, KeyCourses, courses); err != nil {
				return err
			}
		}
		out := *c
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a course by ID
func (r *CourseRepo) Delete(id string) (bool, error) {
	removed := false
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		courses, err := Load[domain.Course](tx, KeyCourses)
		if err != nil {
			return err
		}
		kept := filter(courses, func(c *domain.Course) bool { return c.ID != id })
		if len(kept) == len(courses) {
			return nil
		}
		removed = true
		return Save(tx, KeyCourses, kept)
	})
	if err != nil {
		return false, err
	}

	if removed {
		r.s.dispatcher.Dispatch(event.NewCourseDeleted(id))
	}
	return removed, nil
}
