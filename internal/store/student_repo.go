package store

import (
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// StudentRepo implements port.StudentRepository
type StudentRepo struct {
	s *Store
}

// Ensure StudentRepo implements port.StudentRepository
var _ port.StudentRepository = (*StudentRepo)(nil)

// GetAll returns every student
func (r *StudentRepo) GetAll() ([]domain.Student, error) {
	return Load[domain.Student](r.s.kv, KeyStudents)
}

// GetByID retrieves a student by ID
func (r *StudentRepo) GetByID(id string) (*domain.Student, error) {
	students, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	idx := indexOf(students, func(st *domain.Student) bool { return st.ID == id })
	if idx < 0 {
		return nil, nil
	}
	return &students[idx], nil
}

// Create stores a new student
func (r *StudentRepo) Create(in domain.NewStudent) (*domain.Student, error) {
	student := domain.Student{
		ID:               r.s.newID(),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		Document:         in.Document,
		DocumentType:     in.DocumentType,
		Address:          in.Address,
		BirthDate:        in.BirthDate,
		EmergencyContact: in.EmergencyContact,
		EmergencyPhone:   in.EmergencyPhone,
		CreatedAt:        r.s.now(),
	}
	if student.DocumentType == "" {
		student.DocumentType = domain.DocumentDNI
	}

	err := r.s.kv.Update(func(tx port.KeyValue) error {
		students, err := Load[domain.Student](tx, KeyStudents)
		if err != nil {
			return err
		}
		return Save(tx, KeyStudents, append(students, student))
	})
	if err != nil {
		return nil, err
	}

	r.s.dispatcher.Dispatch(event.NewStudentRegistered(student.ID, student.Email))
	return &student, nil
}

// Update merges the set fields of u into the student
func (r *StudentRepo) Update(id string, u domain.StudentUpdate) (*domain.Student, error) {
	var updated *domain.Student
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		students, err := Load[domain.Student](tx, KeyStudents)
		if err != nil {
			return err
		}
		idx := indexOf(students, func(st *domain.Student) bool { return st.ID == id })
		if idx < 0 {
			return nil
		}
		u.Apply(&students[idx])
		if err := Save(tx, KeyStudents, students); err != nil {
			return err
		}
		st := students[idx]
		updated = &st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a student by ID
func (r *StudentRepo) Delete(id string) (bool, error) {
	removed := false
	err := r.s.kv.Update(func(tx port.KeyValue) error {
		students, err := Load[domain.Student](tx, KeyStudents)
		if err != nil {
			return err
		}
		kept := filter(students, func(st *domain.Student) bool { return st.ID != id })
		if len(kept) == len(students) {
			return nil
		}
		removed = true
		return Save(tx, KeyStudents, kept)
	})
	if err != nil {
		return false, err
	}

	if removed {
		r.s.dispatcher.Dispatch(event.NewStudentDeleted(id))
	}
	return removed, nil
}
