package domain

import (
	"time"

	"github.com/vertextoedge/academic-admin/internal/domain/vo"
)

// CourseStatus is the lifecycle state of a course
type CourseStatus string

const (
	CourseActive    CourseStatus = "active"
	CourseInactive  CourseStatus = "inactive"
	CourseCompleted CourseStatus = "completed"
)

// IsValid returns true if the status is one of the known values
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseActive, CourseInactive, CourseCompleted:
		return true
	}
	return false
}

// Course represents a course offered by the academy
type Course struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Instructor      string       `json:"instructor"`
	Price           float64      `json:"price"`
	Modules         int          `json:"modules"`
	StartDate       vo.Date      `json:"startDate"`
	EndDate         vo.Date      `json:"endDate"`
	MaxStudents     int          `json:"maxStudents"`
	CurrentStudents int          `json:"currentStudents"`
	Status          CourseStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// IsActive returns true if the course is accepting activity
func (c *Course) IsActive() bool {
	return c.Status == CourseActive
}

// IsFull returns true if no seats are left
func (c *Course) IsFull() bool {
	return c.CurrentStudents >= c.MaxStudents
}

// AvailableSeats returns the number of free seats, never negative
func (c *Course) AvailableSeats() int {
	if c.CurrentStudents >= c.MaxStudents {
		return 0
	}
	return c.MaxStudents - c.CurrentStudents
}

// Occupancy returns currentStudents / maxStudents, or 0 when maxStudents is not set
func (c *Course) Occupancy() float64 {
	if c.MaxStudents <= 0 {
		return 0
	}
	return float64(c.CurrentStudents) / float64(c.MaxStudents)
}

// NewCourse holds the caller-supplied fields of a course.
// ID, CreatedAt and CurrentStudents are assigned by the repository.
type NewCourse struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Instructor  string       `json:"instructor" validate:"required"`
	Price       float64      `json:"price" validate:"gt=0"`
	Modules     int          `json:"modules" validate:"min=1"`
	StartDate   vo.Date      `json:"startDate"`
	EndDate     vo.Date      `json:"endDate"`
	MaxStudents int          `json:"maxStudents" validate:"min=1"`
	Status      CourseStatus `json:"status" validate:"oneof=active inactive completed"`
}

// CourseUpdate is a partial course update; nil fields are left unchanged.
// CurrentStudents is derived from enrollments and cannot be set here.
type CourseUpdate struct {
	Name            *string       `json:"name,omitempty"`
	Description     *string       `json:"description,omitempty"`
	Instructor      *string       `json:"instructor,omitempty"`
	Price           *float64      `json:"price,omitempty"`
	Modules         *int          `json:"modules,omitempty"`
	StartDate       *vo.Date      `json:"startDate,omitempty"`
	EndDate         *vo.Date      `json:"endDate,omitempty"`
	MaxStudents     *int          `json:"maxStudents,omitempty"`
	Status          *CourseStatus `json:"status,omitempty"`
}

// Apply merges the set fields into c
func (u *CourseUpdate) Apply(c *Course) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Instructor != nil {
		c.Instructor = *u.Instructor
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
	if u.Modules != nil {
		c.Modules = *u.Modules
	}
	if u.StartDate != nil {
		c.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		c.EndDate = *u.EndDate
	}
	if u.MaxStudents != nil {
		c.MaxStudents = *u.MaxStudents
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
}
