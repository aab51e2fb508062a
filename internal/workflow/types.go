// Package workflow holds the exeat status machine: the status registry, the
// role-gate table and the transition function. It has no HTTP, storage or UI
// dependencies; everything else in the portal consults it instead of comparing
// raw status strings.
package workflow

import (
	"sort"
	"strings"
)

// Status is an exeat request status as reported by the exeat API.
type Status string

const (
	StatusPending          Status = "pending"
	StatusCMDReview        Status = "cmd_review"
	StatusDeputyDeanReview Status = "deputy-dean_review"
	StatusSecretaryReview  Status = "secretary_review"
	StatusParentConsent    Status = "parent_consent"
	StatusDeanReview       Status = "dean_review"
	StatusHostelSignOut    Status = "hostel_signout"
	StatusHostelSignIn     Status = "hostel_signin"
	StatusSecuritySignOut  Status = "security_signout"
	StatusSecuritySignIn   Status = "security_signin"
	StatusApproved         Status = "approved"
	StatusCompleted        Status = "completed"
	StatusRejected         Status = "rejected"
)

// Role is an exeat-system role held by the acting user.
type Role string

const (
	RoleStudent     Role = "student"
	RoleDean        Role = "dean"
	RoleDeputyDean  Role = "deputy_dean"
	RoleCMD         Role = "cmd"
	RoleHostelAdmin Role = "hostel_admin"
	RoleSecurity    Role = "security"
	RoleAdmin       Role = "admin"
)

// Action is something an actor can do to an exeat request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionConsent Action = "consent"
	ActionSignOut Action = "sign_out"
	ActionSignIn  Action = "sign_in"
	ActionComment Action = "comment"
)

// Severity is the presentation class of a status badge.
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// FinalGate selects which office signs students out and back in.
type FinalGate string

const (
	FinalGateHostel   FinalGate = "hostel"
	FinalGateSecurity FinalGate = "security"
)

// Role returns the role that staffs the gate.
func (g FinalGate) Role() Role {
	if g == FinalGateSecurity {
		return RoleSecurity
	}
	return RoleHostelAdmin
}

// SignOutStatus returns the status a dean approval moves a request into.
func (g FinalGate) SignOutStatus() Status {
	if g == FinalGateSecurity {
		return StatusSecuritySignOut
	}
	return StatusHostelSignOut
}

var allRoles = []Role{RoleStudent, RoleDean, RoleDeputyDean, RoleCMD, RoleHostelAdmin, RoleSecurity, RoleAdmin}

var allActions = []Action{ActionApprove, ActionReject, ActionConsent, ActionSignOut, ActionSignIn, ActionComment}

// roleAliases maps names seen in the exeat API's role tables onto Role.
var roleAliases = map[string]Role{
	"deputy-dean":  RoleDeputyDean,
	"deputydean":   RoleDeputyDean,
	"secretary":    RoleDeputyDean,
	"hostel":       RoleHostelAdmin,
	"hostel-admin": RoleHostelAdmin,
	"super_admin":  RoleAdmin,
}

// actionAliases maps URL path segments onto Action.
var actionAliases = map[string]Action{
	"sign-out": ActionSignOut,
	"sign-in":  ActionSignIn,
	"signout":  ActionSignOut,
	"signin":   ActionSignIn,
}

// ParseStatus converts a raw status string into a registered Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.TrimSpace(s))
	if _, ok := registryIndex[st]; ok {
		return st, true
	}
	return "", false
}

// ParseRole converts a raw role name into a Role, accepting known aliases.
func ParseRole(s string) (Role, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range allRoles {
		if string(r) == name {
			return r, true
		}
	}
	if r, ok := roleAliases[name]; ok {
		return r, true
	}
	return "", false
}

// ParseAction converts a raw action name (or path segment) into an Action.
func ParseAction(s string) (Action, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, a := range allActions {
		if string(a) == name {
			return a, true
		}
	}
	if a, ok := actionAliases[name]; ok {
		return a, true
	}
	return "", false
}

// ParseFinalGate converts a configuration value into a FinalGate.
func ParseFinalGate(s string) (FinalGate, bool) {
	switch FinalGate(strings.ToLower(strings.TrimSpace(s))) {
	case FinalGateHostel:
		return FinalGateHostel, true
	case FinalGateSecurity:
		return FinalGateSecurity, true
	}
	return "", false
}

// ── RoleSet ──

// RoleSet is an immutable-by-convention set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from roles, ignoring empty values.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r != "" {
			set[r] = struct{}{}
		}
	}
	return set
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAny reports whether any of roles is in the set.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// IsStaff reports whether the set holds any role other than student.
func (s RoleSet) IsStaff() bool {
	for r := range s {
		if r != RoleStudent {
			return true
		}
	}
	return false
}

// List returns the roles in a stable order.
func (s RoleSet) List() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the role names in a stable order.
func (s RoleSet) Strings() []string {
	roles := s.List()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
