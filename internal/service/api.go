package service

import (
	"context"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// ExeatAPI is the part of the remote exeat API the services call.
// *upstream.Client implements it.
type ExeatAPI interface {
	Login(ctx context.Context, cred upstream.Credentials) (*model.LoginResult, error)
	Logout(ctx context.Context, token string) error

	ListExeatRequests(ctx context.Context, token string, f upstream.ExeatFilter) ([]model.ExeatRequest, error)
	GetExeatRequest(ctx context.Context, token string, id int64) (*model.ExeatRequest, error)
	CreateExeatRequest(ctx context.Context, token string, app *model.ExeatApplication) (*model.ExeatRequest, error)
	Act(ctx context.Context, token string, id int64, a workflow.Action, comment string) (*model.ExeatRequest, error)

	ListDebts(ctx context.Context, token string, f upstream.DebtFilter) ([]model.Debt, error)
	GetDebt(ctx context.Context, token string, id int64) (*model.Debt, error)
	CreateDebt(ctx context.Context, token string, in upstream.DebtInput) (*model.Debt, error)
	ClearDebt(ctx context.Context, token string, id int64, notes string) (*model.Debt, error)
	VerifyPayment(ctx context.Context, token string, id int64, reference string) (*model.PaymentVerification, error)

	ListStaffRoles(ctx context.Context, token string, staffID int64) ([]model.StaffRoleAssignment, error)
	AssignExeatRole(ctx context.Context, token string, staffID, roleID int64) (*model.StaffRoleAssignment, error)
	UnassignExeatRole(ctx context.Context, token string, staffID, roleID int64) error

	ListAuditLogs(ctx context.Context, token string, f upstream.AuditFilter) ([]model.AuditLogEntry, error)
}

var _ ExeatAPI = (*upstream.Client)(nil)
