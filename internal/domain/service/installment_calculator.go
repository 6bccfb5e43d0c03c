package service

import (
	"fmt"
	"math"

	"github.com/vertextoedge/academic-admin/internal/domain"
)

// InstallmentCalculator suggests payment amounts for an enrollment
type InstallmentCalculator struct{}

// NewInstallmentCalculator creates a new InstallmentCalculator
func NewInstallmentCalculator() *InstallmentCalculator {
	return &InstallmentCalculator{}
}

// Suggest returns the amount to propose for the next payment: the pending
// balance spread over the course modules, rounded up and never above the
// pending balance. Without a course (or with no modules) the whole pending
// balance is proposed. Returns 0 when nothing is pending.
func (c *InstallmentCalculator) Suggest(enrollment *domain.Enrollment, course *domain.Course) float64 {
	if enrollment == nil || !enrollment.HasDebt() {
		return 0
	}
	if course == nil || course.Modules <= 0 {
		return enrollment.PendingAmount
	}
	return math.Min(math.Ceil(enrollment.PendingAmount/float64(course.Modules)), enrollment.PendingAmount)
}

// Description returns the default description of a module payment,
// e.g. "Module 2 payment - Web"
func (c *InstallmentCalculator) Description(module int, course *domain.Course) string {
	name := "Course"
	if course != nil && course.Name != "" {
		name = course.Name
	}
	return fmt.Sprintf("Module %d payment - %s", module, name)
}
