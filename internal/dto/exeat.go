package dto

import (
	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/presenter"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// ── Exeat requests ──

// ExeatListRequest is the query of GET /exeat-requests.
type ExeatListRequest struct {
	PaginationRequest
	Status    string `form:"status"`
	StudentID int64  `form:"student_id" binding:"omitempty,min=1"`
}

// CreateExeatRequest is the body of POST /exeat-requests.
type CreateExeatRequest struct {
	StudentID              int64  `json:"student_id"` // set by staff filing on a student's behalf
	CategoryID             int    `json:"category_id"               binding:"required"`
	Reason                 string `json:"reason"                    binding:"required,max=1000"`
	Destination            string `json:"destination"               binding:"required,max=255"`
	DepartureDate          string `json:"departure_date"            binding:"required"`
	ReturnDate             string `json:"return_date"               binding:"required"`
	PreferredModeOfContact string `json:"preferred_mode_of_contact" binding:"required"`
	ParentSurname          string `json:"parent_surname"`
	ParentOthernames       string `json:"parent_othernames"`
	ParentPhoneNo          string `json:"parent_phone_no"`
	ParentPhoneNo2         string `json:"parent_phone_no_two"`
	ParentEmail            string `json:"parent_email"              binding:"omitempty,email"`
	StudentAccommodation   string `json:"student_accommodation"`
}

// Application converts the body into the model sent upstream.
func (r *CreateExeatRequest) Application() *model.ExeatApplication {
	return &model.ExeatApplication{
		StudentID:              r.StudentID,
		CategoryID:             model.Category(r.CategoryID),
		Reason:                 r.Reason,
		Destination:            r.Destination,
		DepartureDate:          r.DepartureDate,
		ReturnDate:             r.ReturnDate,
		PreferredModeOfContact: model.ContactMode(r.PreferredModeOfContact),
		ParentSurname:          r.ParentSurname,
		ParentOthernames:       r.ParentOthernames,
		ParentPhoneNo:          r.ParentPhoneNo,
		ParentPhoneNo2:         r.ParentPhoneNo2,
		ParentEmail:            r.ParentEmail,
		StudentAccommodation:   r.StudentAccommodation,
	}
}

// ActionRequest is the body of POST /exeat-requests/:id/:action.
type ActionRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

// StatusView is the registry entry for a request's status.
type StatusView struct {
	Code     string            `json:"code"`
	Label    string            `json:"label"`
	Severity workflow.Severity `json:"severity"`
	Terminal bool              `json:"terminal"`
	Position int               `json:"position"`
	Progress float64           `json:"progress"`
	Known    bool              `json:"known"`
}

// ActionView is one action button with its prompt.
type ActionView struct {
	Action       workflow.Action        `json:"action"`
	Label        string                 `json:"label"`
	Comment      presenter.CommentField `json:"comment"`
	Confirmation string                 `json:"confirmation"`
}

// CountdownView is the time left until (or past) the return deadline.
type CountdownView struct {
	countdown.Remaining
	Progress float64 `json:"progress"`
	Precise  bool    `json:"precise"` // the stream ticks every second
}

// ExeatView is an exeat request decorated for the signed-in viewer.
type ExeatView struct {
	Request           *model.ExeatRequest    `json:"request"`
	Status            StatusView             `json:"status"`
	Category          presenter.CategoryInfo `json:"category"`
	DurationDays      int                    `json:"duration_days"`
	DurationLabel     string                 `json:"duration_label"`
	ActionTitle       string                 `json:"action_title"`
	ActionDescription string                 `json:"action_description"`
	Actions           []ActionView           `json:"actions"`
	Countdown         *CountdownView         `json:"countdown,omitempty"`
}

// ActionResult is returned by an action call.
type ActionResult struct {
	Action   workflow.Action `json:"action"`
	ActedAs  workflow.Role   `json:"acted_as"`
	Expected workflow.Status `json:"expected_status"`
	Exeat    *ExeatView      `json:"exeat"`
}
