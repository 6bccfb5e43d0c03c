package service

import (
	"testing"

	"github.com/vertextoedge/academic-admin/internal/domain"
)

func TestInstallmentCalculator_Suggest(t *testing.T) {
	calc := NewInstallmentCalculator()

	tests := []struct {
		name       string
		enrollment *domain.Enrollment
		course     *domain.Course
		want       float64
	}{
		{"spread over modules", &domain.Enrollment{PendingAmount: 45000}, &domain.Course{Modules: 8}, 5625},
		{"rounded up", &domain.Enrollment{PendingAmount: 1000}, &domain.Course{Modules: 3}, 334},
		{"fractional pending single module", &domain.Enrollment{PendingAmount: 100.5}, &domain.Course{Modules: 1}, 100.5},
		{"fractional remainder", &domain.Enrollment{PendingAmount: 0.4}, &domain.Course{Modules: 3}, 0.4},
		{"no course", &domain.Enrollment{PendingAmount: 700}, nil, 700},
		{"no modules", &domain.Enrollment{PendingAmount: 700}, &domain.Course{Modules: 0}, 700},
		{"nothing pending", &domain.Enrollment{PendingAmount: 0}, &domain.Course{Modules: 4}, 0},
		{"nil enrollment", nil, &domain.Course{Modules: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.Suggest(tt.enrollment, tt.course); got != tt.want {
				t.Errorf("Suggest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstallmentCalculator_Description(t *testing.T) {
	calc := NewInstallmentCalculator()

	if got := calc.Description(2, &domain.Course{Name: "UX/UI Design"}); got != "Module 2 payment - UX/UI Design" {
		t.Errorf("Description() = %q", got)
	}
	if got := calc.Description(1, nil); got != "Module 1 payment - Course" {
		t.Errorf("Description(nil course) = %q", got)
	}
}
