// Package presenter turns workflow state into the strings the UI shows.
// Every function is total and side-effect free.
package presenter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// Badge is how a status is rendered in lists.
type Badge struct {
	Label    string            `json:"label"`
	Severity workflow.Severity `json:"severity"`
}

// StatusBadge returns the badge for s; unregistered statuses render neutral.
func StatusBadge(s workflow.Status) Badge {
	if info, ok := workflow.Lookup(s); ok {
		return Badge{Label: info.Label, Severity: info.Severity}
	}
	return Badge{Label: humanize(string(s)), Severity: workflow.SeverityNeutral}
}

// ActionTitle is the heading of the action section on a request page.
func ActionTitle(s workflow.Status, role workflow.Role) string {
	switch s {
	case workflow.StatusPending:
		if role == workflow.RoleDean {
			return "Dean Initial Review"
		}
		return "Initial Review"
	case workflow.StatusCMDReview:
		return "Medical Review"
	case workflow.StatusDeputyDeanReview, workflow.StatusSecretaryReview:
		return "Deputy Dean Review"
	case workflow.StatusParentConsent:
		return "Record Parent Consent"
	case workflow.StatusDeanReview:
		return "Final Dean Approval"
	case workflow.StatusHostelSignOut:
		return "Hostel Sign-out"
	case workflow.StatusHostelSignIn:
		return "Hostel Sign-in"
	case workflow.StatusSecuritySignOut:
		return "Security Sign-out"
	case workflow.StatusSecuritySignIn:
		return "Security Sign-in"
	case workflow.StatusApproved:
		return "Confirm Return"
	case workflow.StatusCompleted:
		return "Exeat Completed"
	case workflow.StatusRejected:
		return "Exeat Rejected"
	default:
		return "Exeat Request"
	}
}

// ActionDescription explains what the viewer is being asked to do.
func ActionDescription(s workflow.Status, role workflow.Role) string {
	switch s {
	case workflow.StatusPending:
		return "Review the request details and decide whether it proceeds to the next stage."
	case workflow.StatusCMDReview:
		return "Confirm the medical grounds for this request before it moves to the deputy dean."
	case workflow.StatusDeputyDeanReview, workflow.StatusSecretaryReview:
		return "Review the request and forward it for parent or guardian consent."
	case workflow.StatusParentConsent:
		return "Record the parent or guardian's response once they have been contacted."
	case workflow.StatusDeanReview:
		return "Give final authorization for the student to leave campus."
	case workflow.StatusHostelSignOut, workflow.StatusSecuritySignOut:
		return "Sign the student out as they leave campus."
	case workflow.StatusHostelSignIn, workflow.StatusSecuritySignIn:
		return "Sign the student back in on their return."
	case workflow.StatusApproved:
		if role == workflow.RoleStudent {
			return "Your exeat is active. Return before the deadline to avoid penalties."
		}
		return "The student is off campus. Sign them in when they return."
	case workflow.StatusCompleted:
		return "The student has returned and this exeat is closed."
	case workflow.StatusRejected:
		return "This request was rejected and accepts no further actions."
	default:
		return "No actions are available for this request."
	}
}

// CommentField describes the comment input shown next to an action.
type CommentField struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Hint        string `json:"hint"`
	Required    bool   `json:"required"`
}

// CommentFieldFor returns the comment input for action a on status s.
// Rejecting and plain comments require text; the other actions take an
// optional note.
func CommentFieldFor(s workflow.Status, a workflow.Action) CommentField {
	switch a {
	case workflow.ActionReject:
		return CommentField{
			Label:       "Reason for rejection",
			Placeholder: "Explain why this request is being rejected",
			Hint:        "Required. The student will see this reason.",
			Required:    true,
		}
	case workflow.ActionConsent:
		return CommentField{
			Label:       "Consent notes",
			Placeholder: "How and when the parent or guardian was reached",
			Hint:        "Optional.",
		}
	case workflow.ActionSignOut, workflow.ActionSignIn:
		return CommentField{
			Label:       "Gate notes",
			Placeholder: "Anything noted at the " + strings.ToLower(gateName(s)),
			Hint:        "Optional.",
		}
	case workflow.ActionComment:
		return CommentField{
			Label:       "Comment",
			Placeholder: "Add a note to this request",
			Hint:        "Comments do not change the request's status.",
			Required:    true,
		}
	default:
		return CommentField{
			Label:       "Comment",
			Placeholder: "Add an optional comment",
			Hint:        "Optional.",
		}
	}
}

func gateName(s workflow.Status) string {
	switch s {
	case workflow.StatusSecuritySignOut, workflow.StatusSecuritySignIn:
		return "Security gate"
	default:
		return "Hostel"
	}
}

// CategoryInfo is the icon and name of an exeat category.
type CategoryInfo struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
}

// Category returns the icon and name for a category id. The medical flag wins
// over the id, since the API sets it even when the category is recoded.
func Category(id model.Category, isMedical bool) CategoryInfo {
	if isMedical {
		return CategoryInfo{Icon: "stethoscope", Name: "Medical"}
	}
	switch id {
	case model.CategoryMedical:
		return CategoryInfo{Icon: "stethoscope", Name: "Medical"}
	case model.CategoryCasual:
		return CategoryInfo{Icon: "calendar", Name: "Casual"}
	case model.CategoryEmergency:
		return CategoryInfo{Icon: "alert-triangle", Name: "Emergency"}
	case model.CategoryOfficial:
		return CategoryInfo{Icon: "briefcase", Name: "Official"}
	default:
		return CategoryInfo{Icon: "file-text", Name: "Exeat"}
	}
}

// DurationLabel renders a day count, e.g. "1 day" or "3 days".
func DurationLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// ApproveConfirmation is the sentence shown before an approve-type action.
func ApproveConfirmation(r *model.ExeatRequest) string {
	status, _ := r.WorkflowStatus()
	days := DurationLabel(countdown.DurationDays(r.DepartureDate, r.ReturnDate))
	name := r.StudentName()
	switch status {
	case workflow.StatusParentConsent:
		return fmt.Sprintf("Record that %s's parent or guardian consents to the %s trip to %s?", name, days, r.Destination)
	case workflow.StatusHostelSignOut, workflow.StatusSecuritySignOut:
		return fmt.Sprintf("Sign %s out for %s to %s? Return is due by %s.", name, days, r.Destination, r.ReturnDate)
	case workflow.StatusApproved, workflow.StatusHostelSignIn, workflow.StatusSecuritySignIn:
		return fmt.Sprintf("Confirm that %s has returned from %s?", name, r.Destination)
	default:
		return fmt.Sprintf("Approve %s's exeat to %s for %s? Reason: %q.", name, r.Destination, days, r.Reason)
	}
}

// RejectConfirmation is the sentence shown before a rejection.
func RejectConfirmation(r *model.ExeatRequest) string {
	days := DurationLabel(countdown.DurationDays(r.DepartureDate, r.ReturnDate))
	return fmt.Sprintf("Reject %s's %s exeat to %s? Reason given: %q. This cannot be undone.",
		r.StudentName(), days, r.Destination, r.Reason)
}

// ActionLabel is the button text for an action.
func ActionLabel(a workflow.Action) string {
	switch a {
	case workflow.ActionApprove:
		return "Approve"
	case workflow.ActionReject:
		return "Reject"
	case workflow.ActionConsent:
		return "Record Consent"
	case workflow.ActionSignOut:
		return "Sign Out"
	case workflow.ActionSignIn:
		return "Sign In"
	case workflow.ActionComment:
		return "Add Comment"
	default:
		return humanize(string(a))
	}
}

func humanize(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, " ")
}
