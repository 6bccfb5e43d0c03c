package academy

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/service"
	"github.com/vertextoedge/academic-admin/internal/domain/vo"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// Service applies the admin form rules in front of the repositories:
// field validation, student uniqueness, the student delete guard and
// the derivation of enrollment and payment amounts.
type Service struct {
	store      port.Store
	validate   *validator.Validate
	calculator *service.InstallmentCalculator
	logger     *zap.Logger
}

// NewService creates a new academy service
func NewService(store port.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		validate:   newValidator(),
		calculator: service.NewInstallmentCalculator(),
		logger:     logger,
	}
}

// CreateCourse validates and stores a new course
func (s *Service) CreateCourse(in domain.NewCourse) (*domain.Course, error) {
	if in.Status == "" {
		in.Status = domain.CourseActive
	}
	if err := s.validateCourse(in); err != nil {
		return nil, err
	}

	course, err := s.store.Courses().Create(in)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	s.logger.Info("course created",
		zap.String("course_id", course.ID),
		zap.String("name", course.Name))
	return course, nil
}

// UpdateCourse validates the merged course and stores the update
func (s *Service) UpdateCourse(id string, u domain.CourseUpdate) (*domain.Course, error) {
	existing, err := s.store.Courses().GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}

	merged := *existing
	u.Apply(&merged)
	if err := s.validateCourse(courseFields(&merged)); err != nil {
		return nil, err
	}
	if merged.MaxStudents < merged.CurrentStudents {
		verr := domain.NewValidationError()
		verr.Add("maxStudents", fmt.Sprintf("must be at least the %d enrolled students", merged.CurrentStudents))
		return nil, verr
	}

	course, err := s.store.Courses().Update(id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return course, nil
}

// DeleteCourse removes a course. Enrollments referencing it are kept.
func (s *Service) DeleteCourse(id string) error {
	removed, err := s.store.Courses().Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if !removed {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

// RegisterStudent validates and stores a new student
func (s *Service) RegisterStudent(in domain.NewStudent) (*domain.Student, error) {
	if in.DocumentType == "" {
		in.DocumentType = domain.DocumentDNI
	}
	if err := s.validateStudent("", in); err != nil {
		return nil, err
	}

	student, err := s.store.Students().Create(in)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	s.logger.Info("student registered", zap.String("student_id", student.ID))
	return student, nil
}

// UpdateStudent validates the merged student and stores the update
func (s *Service) UpdateStudent(id string, u domain.StudentUpdate) (*domain.Student, error) {
	existing, err := s.store.Students().GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("student %s: %w", id, domain.ErrNotFound)
	}

	merged := *existing
	u.Apply(&merged)
	if err := s.validateStudent(id, studentFields(&merged)); err != nil {
		return nil, err
	}

	student, err := s.store.Students().Update(id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("student %s: %w", id, domain.ErrNotFound)
	}
	return student, nil
}

// DeleteStudent removes a student that has no enrollments
func (s *Service) DeleteStudent(id string) error {
	student, err := s.store.Students().GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return fmt.Errorf("student %s: %w", id, domain.ErrNotFound)
	}

	enrollments, err := s.store.Enrollments().GetByStudentID(id)
	if err != nil {
		return fmt.Errorf("failed to get enrollments: %w", err)
	}
	if len(enrollments) > 0 {
		return fmt.Errorf("student %s has %d enrollments: %w",
			id, len(enrollments), domain.ErrStudentHasEnrollments)
	}

	if _, err := s.store.Students().Delete(id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// Enroll registers a student in a course. The total is the course price and
// nothing is paid yet. A zero date means today.
func (s *Service) Enroll(studentID, courseID string, date vo.Date) (*domain.Enrollment, error) {
	verr := domain.NewValidationError()
	if studentID == "" {
		verr.Add("studentId", "is required")
	}
	if courseID == "" {
		verr.Add("courseId", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	student, err := s.store.Students().GetByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("student %s: %w", studentID, domain.ErrNotFound)
	}
	course, err := s.store.Courses().GetByID(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}

	enrollment, err := s.store.Enrollments().Create(domain.NewEnrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: date,
		Status:         domain.EnrollmentActive,
		TotalAmount:    course.Price,
		PaidAmount:     0,
		PendingAmount:  course.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	s.logger.Info("student enrolled",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", studentID),
		zap.String("course_id", courseID))
	return enrollment, nil
}

// UpdateEnrollment changes the status or date of an enrollment. Amounts only
// change through payments and are rejected here.
func (s *Service) UpdateEnrollment(id string, u domain.EnrollmentUpdate) (*domain.Enrollment, error) {
	verr := domain.NewValidationError()
	if u.TotalAmount != nil || u.PaidAmount != nil || u.PendingAmount != nil {
		verr.Add("amount", "amounts change only through payments")
	}
	if u.StudentID != nil || u.CourseID != nil {
		verr.Add("reference", "student and course cannot be changed")
	}
	if u.Status != nil {
		switch *u.Status {
		case domain.EnrollmentActive, domain.EnrollmentCompleted, domain.EnrollmentDropped:
		default:
			verr.Add("status", "must be one of: active completed dropped")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	enrollment, err := s.store.Enrollments().Update(id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, fmt.Errorf("enrollment %s: %w", id, domain.ErrNotFound)
	}
	return enrollment, nil
}

// RecordPayment validates a payment against its enrollment and stores it.
// Student and course are taken from the enrollment.
func (s *Service) RecordPayment(in domain.NewPayment) (*domain.Payment, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentCash
	}

	verr := domain.NewValidationError()
	if err := checkStruct(s.validate, in, verr); err != nil {
		return nil, err
	}
	if in.PaymentDate.IsZero() {
		verr.Add("paymentDate", "is required")
	}

	var enrollment *domain.Enrollment
	if in.EnrollmentID != "" {
		e, err := s.store.Enrollments().GetByID(in.EnrollmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get enrollment: %w", err)
		}
		if e == nil {
			verr.Add("enrollmentId", "does not exist")
		}
		enrollment = e
	}

	if enrollment != nil {
		if in.Amount > enrollment.PendingAmount+domain.MoneyTolerance {
			verr.Add("amount", fmt.Sprintf("must not exceed the pending balance (%.2f)", enrollment.PendingAmount))
		}
		if in.Module != nil {
			course, err := s.store.Courses().GetByID(enrollment.CourseID)
			if err != nil {
				return nil, fmt.Errorf("failed to get course: %w", err)
			}
			if course != nil && (*in.Module < 1 || *in.Module > course.Modules) {
				verr.Add("module", fmt.Sprintf("must be between 1 and %d", course.Modules))
			}
		}
		in.StudentID = enrollment.StudentID
		in.CourseID = enrollment.CourseID
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	payment, err := s.store.Payments().Create(in)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("enrollment_id", payment.EnrollmentID),
		zap.Float64("amount", payment.Amount))
	return payment, nil
}

// PaymentSuggestion is the proposed next payment for an enrollment
type PaymentSuggestion struct {
	EnrollmentID  string  `json:"enrollmentId"`
	Amount        float64 `json:"amount"`
	Module        int     `json:"module"`
	Description   string  `json:"description"`
	PendingAmount float64 `json:"pendingAmount"`
}

// SuggestPayment proposes the next module payment: the pending balance spread
// over the course modules, rounded up
func (s *Service) SuggestPayment(enrollmentID string) (*PaymentSuggestion, error) {
	enrollment, err := s.store.Enrollments().GetByID(enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, domain.ErrNotFound)
	}
	course, err := s.store.Courses().GetByID(enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	payments, err := s.store.Payments().GetByEnrollmentID(enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	module := len(payments) + 1
	if course != nil && course.Modules > 0 && module > course.Modules {
		module = course.Modules
	}

	return &PaymentSuggestion{
		EnrollmentID:  enrollmentID,
		Amount:        s.calculator.Suggest(enrollment, course),
		Module:        module,
		Description:   s.calculator.Description(module, course),
		PendingAmount: enrollment.PendingAmount,
	}, nil
}

func (s *Service) validateCourse(in domain.NewCourse) error {
	verr := domain.NewValidationError()
	if err := checkStruct(s.validate, in, verr); err != nil {
		return err
	}
	if in.StartDate.IsZero() {
		verr.Add("startDate", "is required")
	}
	if in.EndDate.IsZero() {
		verr.Add("endDate", "is required")
	} else if !in.StartDate.IsZero() && !in.EndDate.After(in.StartDate) {
		verr.Add("endDate", "must be after startDate")
	}
	return verr.OrNil()
}

// validateStudent checks in, treating selfID as the student being edited
func (s *Service) validateStudent(selfID string, in domain.NewStudent) error {
	verr := domain.NewValidationError()
	if err := checkStruct(s.validate, in, verr); err != nil {
		return err
	}
	if in.BirthDate.IsZero() {
		verr.Add("birthDate", "is required")
	}

	students, err := s.store.Students().GetAll()
	if err != nil {
		return fmt.Errorf("failed to get students: %w", err)
	}
	for _, other := range students {
		if other.ID == selfID {
			continue
		}
		if in.Email != "" && other.Email == in.Email {
			verr.Set("email", "is already registered")
		}
		if in.Document != "" && other.Document == in.Document {
			verr.Set("document", "is already registered")
		}
	}
	return verr.OrNil()
}

func courseFields(c *domain.Course) domain.NewCourse {
	return domain.NewCourse{
		Name:        c.Name,
		Description: c.Description,
		Instructor:  c.Instructor,
		Price:       c.Price,
		Modules:     c.Modules,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		MaxStudents: c.MaxStudents,
		Status:      c.Status,
	}
}

func studentFields(st *domain.Student) domain.NewStudent {
	return domain.NewStudent{
		FirstName:        st.FirstName,
		LastName:         st.LastName,
		Email:            st.Email,
		Phone:            st.Phone,
		Document:         st.Document,
		DocumentType:     st.DocumentType,
		Address:          st.Address,
		BirthDate:        st.BirthDate,
		EmergencyContact: st.EmergencyContact,
		EmergencyPhone:   st.EmergencyPhone,
	}
}
