package domain

import (
	"strings"
	"time"

	"github.com/vertextoedge/academic-admin/internal/domain/vo"
)

// DocumentType is the kind of identity document a student registered with
type DocumentType string

const (
	DocumentDNI      DocumentType = "dni"
	DocumentPassport DocumentType = "passport"
	DocumentOther    DocumentType = "other"
)

// Student represents a registered student
type Student struct {
	ID               string       `json:"id"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Document         string       `json:"document"`
	DocumentType     DocumentType `json:"documentType"`
	Address          string       `json:"address"`
	BirthDate        vo.Date      `json:"birthDate"`
	EmergencyContact string       `json:"emergencyContact"`
	EmergencyPhone   string       `json:"emergencyPhone"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// NewStudent holds the caller-supplied fields of a student
type NewStudent struct {
	FirstName        string       `json:"firstName" validate:"required"`
	LastName         string       `json:"lastName" validate:"required"`
	Email            string       `json:"email" validate:"required,email"`
	Phone            string       `json:"phone" validate:"required,phone"`
	Document         string       `json:"document" validate:"required"`
	DocumentType     DocumentType `json:"documentType" validate:"oneof=dni passport other"`
	Address          string       `json:"address"`
	BirthDate        vo.Date      `json:"birthDate"`
	EmergencyContact string       `json:"emergencyContact" validate:"required"`
	EmergencyPhone   string       `json:"emergencyPhone" validate:"required,phone"`
}

// StudentUpdate is a partial student update; nil fields are left unchanged
type StudentUpdate struct {
	FirstName        *string       `json:"firstName,omitempty"`
	LastName         *string       `json:"lastName,omitempty"`
	Email            *string       `json:"email,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	Document         *string       `json:"document,omitempty"`
	DocumentType     *DocumentType `json:"documentType,omitempty"`
	Address          *string       `json:"address,omitempty"`
	BirthDate        *vo.Date      `json:"birthDate,omitempty"`
	EmergencyContact *string       `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string       `json:"emergencyPhone,omitempty"`
}

// Apply merges the set fields into s
func (u *StudentUpdate) Apply(s *Student) {
	if u.FirstName != nil {
		s.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		s.LastName = *u.LastName
	}
	if u.Email != nil {
		s.Email = *u.Email
	}
	if u.Phone != nil {
		s.Phone = *u.Phone
	}
	if u.Document != nil {
		s.Document = *u.Document
	}
	if u.DocumentType != nil {
		s.DocumentType = *u.DocumentType
	}
	if u.Address != nil {
		s.Address = *u.Address
	}
	if u.BirthDate != nil {
		s.BirthDate = *u.BirthDate
	}
	if u.EmergencyContact != nil {
		s.EmergencyContact = *u.EmergencyContact
	}
	if u.EmergencyPhone != nil {
		s.EmergencyPhone = *u.EmergencyPhone
	}
}
