package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── Auth ──

// Credentials are what a user types on the login form.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login establishes identity. No token is sent.
func (c *Client) Login(ctx context.Context, cred Credentials) (*model.LoginResult, error) {
	var out model.LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", "", nil, cred, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, pkgerrors.New(pkgerrors.KindUpstream, "the exeat service did not return a token")
	}
	return &out, nil
}

// Logout revokes the exeat API token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, nil, nil, nil)
}

// ── Exeat requests ──

// ExeatFilter narrows a request listing. Zero values are omitted.
type ExeatFilter struct {
	Status    string
	StudentID int64
}

func (f ExeatFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.StudentID > 0 {
		q.Set("student_id", strconv.FormatInt(f.StudentID, 10))
	}
	return q
}

// ListExeatRequests lists the requests visible to the token's owner.
func (c *Client) ListExeatRequests(ctx context.Context, token string, f ExeatFilter) ([]model.ExeatRequest, error) {
	var out []model.ExeatRequest
	if err := c.do(ctx, http.MethodGet, "/exeat-requests", token, f.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExeatRequest fetches one request.
func (c *Client) GetExeatRequest(ctx context.Context, token string, id int64) (*model.ExeatRequest, error) {
	var out model.ExeatRequest
	if err := c.do(ctx, http.MethodGet, "/exeat-requests/"+strconv.FormatInt(id, 10), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateExeatRequest submits a new application.
func (c *Client) CreateExeatRequest(ctx context.Context, token string, app *model.ExeatApplication) (*model.ExeatRequest, error) {
	var out model.ExeatRequest
	if err := c.do(ctx, http.MethodPost, "/exeat-requests", token, nil, app, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type actionBody struct {
	Comment string `json:"comment,omitempty"`
}

// ActionPath is the URL segment the exeat API uses for an action.
func ActionPath(a workflow.Action) string {
	switch a {
	case workflow.ActionSignOut:
		return "sign-out"
	case workflow.ActionSignIn:
		return "sign-in"
	default:
		return string(a)
	}
}

// Act submits an action with an optional comment and returns the updated
// request. It is called exactly once per user action.
func (c *Client) Act(ctx context.Context, token string, id int64, a workflow.Action, comment string) (*model.ExeatRequest, error) {
	path := "/exeat-requests/" + strconv.FormatInt(id, 10) + "/" + ActionPath(a)
	var out model.ExeatRequest
	if err := c.do(ctx, http.MethodPost, path, token, nil, actionBody{Comment: comment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Debts ──

// DebtFilter narrows a debt listing.
type DebtFilter struct {
	StudentID     int64
	PaymentStatus string
}

// DebtInput creates a debt.
type DebtInput struct {
	StudentID      int64   `json:"student_id"`
	ExeatRequestID int64   `json:"exeat_request_id"`
	Amount         float64 `json:"amount"`
	OverdueHours   int     `json:"overdue_hours,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// ListDebts lists debts.
func (c *Client) ListDebts(ctx context.Context, token string, f DebtFilter) ([]model.Debt, error) {
	q := url.Values{}
	if f.StudentID > 0 {
		q.Set("student_id", strconv.FormatInt(f.StudentID, 10))
	}
	if f.PaymentStatus != "" {
		q.Set("payment_status", f.PaymentStatus)
	}
	var out []model.Debt
	if err := c.do(ctx, http.MethodGet, "/debts", token, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDebt fetches one debt.
func (c *Client) GetDebt(ctx context.Context, token string, id int64) (*model.Debt, error) {
	var out model.Debt
	if err := c.do(ctx, http.MethodGet, "/debts/"+strconv.FormatInt(id, 10), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDebt records a new debt.
func (c *Client) CreateDebt(ctx context.Context, token string, in DebtInput) (*model.Debt, error) {
	var out model.Debt
	if err := c.do(ctx, http.MethodPost, "/debts", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearDebt marks a paid debt cleared.
func (c *Client) ClearDebt(ctx context.Context, token string, id int64, notes string) (*model.Debt, error) {
	body := struct {
		Notes string `json:"notes"`
	}{Notes: notes}
	var out model.Debt
	if err := c.do(ctx, http.MethodPost, "/debts/"+strconv.FormatInt(id, 10)+"/clear", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment checks a payment reference against a debt.
func (c *Client) VerifyPayment(ctx context.Context, token string, id int64, reference string) (*model.PaymentVerification, error) {
	q := url.Values{"reference": {reference}}
	var out model.PaymentVerification
	if err := c.do(ctx, http.MethodGet, "/debts/"+strconv.FormatInt(id, 10)+"/verify-payment", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Staff roles ──

type roleBody struct {
	ExeatRoleID int64 `json:"exeat_role_id"`
}

func staffPath(staffID int64, suffix string) string {
	return "/admin/staff/" + strconv.FormatInt(staffID, 10) + "/" + suffix
}

// ListStaffRoles lists a staff member's exeat roles.
func (c *Client) ListStaffRoles(ctx context.Context, token string, staffID int64) ([]model.StaffRoleAssignment, error) {
	var out []model.StaffRoleAssignment
	if err := c.do(ctx, http.MethodGet, staffPath(staffID, "exeat-roles"), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignExeatRole grants an exeat role to a staff member.
func (c *Client) AssignExeatRole(ctx context.Context, token string, staffID, roleID int64) (*model.StaffRoleAssignment, error) {
	var out model.StaffRoleAssignment
	if err := c.do(ctx, http.MethodPost, staffPath(staffID, "assign-exeat-role"), token, nil, roleBody{roleID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnassignExeatRole removes an exeat role from a staff member.
func (c *Client) UnassignExeatRole(ctx context.Context, token string, staffID, roleID int64) error {
	return c.do(ctx, http.MethodDelete, staffPath(staffID, "unassign-exeat-role"), token, nil, roleBody{roleID}, nil)
}

// ── Audit ──

// AuditFilter narrows an audit-log listing.
type AuditFilter struct {
	TargetType string
	TargetID   int64
}

// ListAuditLogs reads the exeat API's audit trail.
func (c *Client) ListAuditLogs(ctx context.Context, token string, f AuditFilter) ([]model.AuditLogEntry, error) {
	q := url.Values{}
	if f.TargetType != "" {
		q.Set("target_type", f.TargetType)
	}
	if f.TargetID > 0 {
		q.Set("target_id", strconv.FormatInt(f.TargetID, 10))
	}
	var out []model.AuditLogEntry
	if err := c.do(ctx, http.MethodGet, "/admin/audit-logs", token, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
