package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

func TestStaffRole_AdminOnly(t *testing.T) {
	api := newMockExeatAPI()
	svc := NewStaffRoleService(api, zap.NewNop())
	ctx := context.Background()
	dean := staffSnap(2, workflow.RoleDean)

	if _, err := svc.List(ctx, dean, 5); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("List: expected ErrAdminOnly, got %v", err)
	}
	if _, err := svc.Assign(ctx, dean, 5, 3); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("Assign: expected ErrAdminOnly, got %v", err)
	}
	if err := svc.Unassign(ctx, dean, 5, 3); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("Unassign: expected ErrAdminOnly, got %v", err)
	}
	if len(api.roles) != 0 || api.unassignCalls != 0 {
		t.Error("non-admins must not reach the exeat api")
	}
}

func TestStaffRole_AssignAndList(t *testing.T) {
	api := newMockExeatAPI()
	svc := NewStaffRoleService(api, zap.NewNop())
	ctx := context.Background()
	admin := staffSnap(1, workflow.RoleAdmin)

	a, err := svc.Assign(ctx, admin, 5, 3)
	if err != nil {
		t.Fatalf("Assign should succeed, got %v", err)
	}
	if a.StaffID != 5 || a.ExeatRoleID != 3 {
		t.Errorf("unexpected assignment %+v", a)
	}
	list, err := svc.List(ctx, admin, 5)
	if err != nil || len(list) != 1 {
		t.Errorf("expected one assignment, got %d %v", len(list), err)
	}
	if err := svc.Unassign(ctx, admin, 5, 3); err != nil || api.unassignCalls != 1 {
		t.Errorf("Unassign should reach the exeat api once, got %d %v", api.unassignCalls, err)
	}
}

func TestAudit_NewestFirst(t *testing.T) {
	api := newMockExeatAPI()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	api.audit = []model.AuditLogEntry{
		{ID: 1, Action: "approve", Timestamp: base},
		{ID: 2, Action: "reject", Timestamp: base.Add(2 * time.Hour)},
		{ID: 3, Action: "sign_out", Timestamp: base.Add(time.Hour)},
	}
	svc := NewAuditService(api, zap.NewNop())

	if _, _, err := svc.List(context.Background(), staffSnap(2, workflow.RoleDean), &dto.AuditLogRequest{}); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("expected ErrAdminOnly, got %v", err)
	}

	entries, total, err := svc.List(context.Background(), staffSnap(1, workflow.RoleAdmin), &dto.AuditLogRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || entries[0].ID != 2 || entries[2].ID != 1 {
		t.Errorf("expected newest first, got %+v", entries)
	}
}

func TestWorkflow_Describe(t *testing.T) {
	gates := workflow.MustGateTable(workflow.GateConfig{FinalGate: workflow.FinalGateSecurity})
	svc := NewWorkflowService(workflow.NewMachine(gates, zap.NewNop()))

	resp := svc.Describe()
	if resp.FinalGate != workflow.FinalGateSecurity {
		t.Errorf("expected security final gate, got %s", resp.FinalGate)
	}
	if len(resp.Statuses) != len(workflow.Registry()) {
		t.Fatalf("every registered status should be described, got %d", len(resp.Statuses))
	}
	for _, s := range resp.Statuses {
		switch s.Status {
		case workflow.StatusApproved:
			if len(s.Roles) != 1 || s.Roles[0] != string(workflow.RoleSecurity) {
				t.Errorf("approved should be staffed by security, got %v", s.Roles)
			}
		case workflow.StatusRejected:
			if !s.Terminal || len(s.Actions) != 0 {
				t.Errorf("rejected is terminal with no actions, got %+v", s)
			}
		}
	}
}
