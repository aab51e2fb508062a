package model

import (
	"strings"
	"time"

	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// Category is the exeat category id used by the exeat API.
type Category int

const (
	CategoryMedical   Category = 1
	CategoryCasual    Category = 2
	CategoryEmergency Category = 3
	CategoryOfficial  Category = 4
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= CategoryMedical && c <= CategoryOfficial
}

// ContactMode is how staff should reach a student's parent or guardian.
type ContactMode string

const (
	ContactWhatsApp  ContactMode = "whatsapp"
	ContactText      ContactMode = "text"
	ContactPhoneCall ContactMode = "phone_call"
	ContactEmail     ContactMode = "email"
)

// Valid reports whether m is a known contact mode.
func (m ContactMode) Valid() bool {
	switch m {
	case ContactWhatsApp, ContactText, ContactPhoneCall, ContactEmail:
		return true
	}
	return false
}

// ExeatApplication is the student-supplied part of an exeat request. It is
// what a draft holds and what a create call sends.
type ExeatApplication struct {
	StudentID              int64       `json:"student_id,omitempty"`
	CategoryID             Category    `json:"category_id"`
	Reason                 string      `json:"reason"`
	Destination            string      `json:"destination"`
	DepartureDate          string      `json:"departure_date"`
	ReturnDate             string      `json:"return_date"`
	PreferredModeOfContact ContactMode `json:"preferred_mode_of_contact"`
	ParentSurname          string      `json:"parent_surname,omitempty"`
	ParentOthernames       string      `json:"parent_othernames,omitempty"`
	ParentPhoneNo          string      `json:"parent_phone_no,omitempty"`
	ParentPhoneNo2         string      `json:"parent_phone_no_two,omitempty"`
	ParentEmail            string      `json:"parent_email,omitempty"`
	StudentAccommodation   string      `json:"student_accommodation,omitempty"`
}

// Validate checks the fields the exeat API would reject, so the user hears
// about them before a round-trip.
func (a *ExeatApplication) Validate() error {
	if !a.CategoryID.Valid() {
		return pkgerrors.New(pkgerrors.KindValidation, "choose a valid exeat category")
	}
	if strings.TrimSpace(a.Reason) == "" {
		return pkgerrors.New(pkgerrors.KindValidation, "a reason is required")
	}
	if strings.TrimSpace(a.Destination) == "" {
		return pkgerrors.New(pkgerrors.KindValidation, "a destination is required")
	}
	dep, ok := countdown.ParseDate(a.DepartureDate, time.UTC)
	if !ok {
		return pkgerrors.New(pkgerrors.KindValidation, "departure date must be YYYY-MM-DD")
	}
	ret, ok := countdown.ParseDate(a.ReturnDate, time.UTC)
	if !ok {
		return pkgerrors.New(pkgerrors.KindValidation, "return date must be YYYY-MM-DD")
	}
	if ret.Before(dep) {
		return pkgerrors.New(pkgerrors.KindValidation, "return date cannot be before departure date")
	}
	if !a.PreferredModeOfContact.Valid() {
		return pkgerrors.New(pkgerrors.KindValidation, "choose how your parent should be contacted")
	}
	if a.PreferredModeOfContact == ContactEmail && strings.TrimSpace(a.ParentEmail) == "" {
		return pkgerrors.New(pkgerrors.KindValidation, "a parent email is required for email contact")
	}
	if a.PreferredModeOfContact != ContactEmail && strings.TrimSpace(a.ParentPhoneNo) == "" {
		return pkgerrors.New(pkgerrors.KindValidation, "a parent phone number is required")
	}
	return nil
}

// ExeatRequest is an exeat request as held by the exeat API.
type ExeatRequest struct {
	ID       int64  `json:"id"`
	MatricNo string `json:"matric_no"`
	ExeatApplication
	Status    string    `json:"status"`
	IsMedical bool      `json:"is_medical"`
	Comment   string    `json:"comment,omitempty"`
	Student   *User     `json:"student,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkflowStatus returns the typed status, or false if the API sent an
// unregistered value.
func (r *ExeatRequest) WorkflowStatus() (workflow.Status, bool) {
	return workflow.ParseStatus(r.Status)
}

// Medical is the medical-branch discriminator. The flag is trusted, and the
// category is used when the API omitted it.
func (r *ExeatRequest) Medical() bool {
	return r.IsMedical || r.CategoryID == CategoryMedical
}

// TransitionContext returns the fields the transition table branches on.
func (r *ExeatRequest) TransitionContext() workflow.TransitionContext {
	return workflow.TransitionContext{IsMedical: r.Medical()}
}

// StudentName returns the student's display name or the matric number.
func (r *ExeatRequest) StudentName() string {
	if r.Student != nil {
		if n := r.Student.FullName(); n != "" {
			return n
		}
	}
	if r.MatricNo != "" {
		return r.MatricNo
	}
	return "the student"
}
