package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ErrAdminOnly is returned to non-admins on admin endpoints.
var ErrAdminOnly = pkgerrors.New(pkgerrors.KindPermissionDenied, "only administrators can do this")

func requireAdmin(viewer *session.Snapshot) error {
	if !viewer.Roles.Has(workflow.RoleAdmin) {
		return ErrAdminOnly
	}
	return nil
}

// StaffRoleService manages which exeat roles staff members hold. Changes take
// effect at the staff member's next login, when their snapshot is rebuilt.
type StaffRoleService interface {
	List(ctx context.Context, viewer *session.Snapshot, staffID int64) ([]model.StaffRoleAssignment, error)
	Assign(ctx context.Context, viewer *session.Snapshot, staffID, roleID int64) (*model.StaffRoleAssignment, error)
	Unassign(ctx context.Context, viewer *session.Snapshot, staffID, roleID int64) error
}

type staffRoleService struct {
	api    ExeatAPI
	logger *zap.Logger
}

// NewStaffRoleService creates a StaffRoleService.
func NewStaffRoleService(api ExeatAPI, logger *zap.Logger) StaffRoleService {
	return &staffRoleService{api: api, logger: logger}
}

func (s *staffRoleService) List(ctx context.Context, viewer *session.Snapshot, staffID int64) ([]model.StaffRoleAssignment, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	return s.api.ListStaffRoles(ctx, viewer.Token, staffID)
}

func (s *staffRoleService) Assign(ctx context.Context, viewer *session.Snapshot, staffID, roleID int64) (*model.StaffRoleAssignment, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	a, err := s.api.AssignExeatRole(ctx, viewer.Token, staffID, roleID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("exeat role assigned",
		zap.Int64("staff_id", staffID),
		zap.Int64("exeat_role_id", roleID),
		zap.Int64("by", viewer.User.ID),
	)
	return a, nil
}

func (s *staffRoleService) Unassign(ctx context.Context, viewer *session.Snapshot, staffID, roleID int64) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if err := s.api.UnassignExeatRole(ctx, viewer.Token, staffID, roleID); err != nil {
		return err
	}
	s.logger.Info("exeat role unassigned",
		zap.Int64("staff_id", staffID),
		zap.Int64("exeat_role_id", roleID),
		zap.Int64("by", viewer.User.ID),
	)
	return nil
}
