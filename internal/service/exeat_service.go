package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── Exeat errors ──

var (
	ErrCommentRequired    = pkgerrors.New(pkgerrors.KindValidation, "a comment is required for this action")
	ErrUnknownStatusQuery = pkgerrors.New(pkgerrors.KindValidation, "unknown status filter")
	ErrStudentRequired    = pkgerrors.New(pkgerrors.KindValidation, "choose the student this exeat is for")
	ErrCannotFileForOther = pkgerrors.New(pkgerrors.KindPermissionDenied, "only deans can file an exeat on a student's behalf")
)

// onBehalfRoles may file an application for a student.
var onBehalfRoles = []workflow.Role{workflow.RoleDean, workflow.RoleDeputyDean, workflow.RoleAdmin}

// ExeatService reads and acts on exeat requests through the exeat API.
type ExeatService interface {
	List(ctx context.Context, viewer *session.Snapshot, req *dto.ExeatListRequest) ([]*dto.ExeatView, int64, error)
	Get(ctx context.Context, viewer *session.Snapshot, id int64) (*dto.ExeatView, error)
	Create(ctx context.Context, viewer *session.Snapshot, app *model.ExeatApplication) (*dto.ExeatView, error)
	// Act pre-validates the action against the request's current status and
	// submits it once. On a stale-state conflict the result carries the
	// refreshed request alongside the error.
	Act(ctx context.Context, viewer *session.Snapshot, id int64, action workflow.Action, comment string) (*dto.ActionResult, error)
}

type exeatService struct {
	api     ExeatAPI
	machine *workflow.Machine
	views   *viewBuilder
	logger  *zap.Logger
}

// NewExeatService creates an ExeatService.
func NewExeatService(api ExeatAPI, machine *workflow.Machine, loc *time.Location, logger *zap.Logger) ExeatService {
	return &exeatService{
		api:     api,
		machine: machine,
		views:   newViewBuilder(machine, loc),
		logger:  logger,
	}
}

func (s *exeatService) List(ctx context.Context, viewer *session.Snapshot, req *dto.ExeatListRequest) ([]*dto.ExeatView, int64, error) {
	f := upstream.ExeatFilter{StudentID: req.StudentID}
	if req.Status != "" {
		st, ok := workflow.ParseStatus(req.Status)
		if !ok {
			return nil, 0, ErrUnknownStatusQuery
		}
		f.Status = string(st)
	}
	// students only ever see their own requests
	if !viewer.Roles.IsStaff() {
		f.StudentID = viewer.User.ID
	}

	list, err := s.api.ListExeatRequests(ctx, viewer.Token, f)
	if err != nil {
		return nil, 0, err
	}

	start, end := req.Bounds(len(list))
	views := make([]*dto.ExeatView, 0, end-start)
	for i := start; i < end; i++ {
		views = append(views, s.views.build(&list[i], viewer))
	}
	return views, int64(len(list)), nil
}

func (s *exeatService) Get(ctx context.Context, viewer *session.Snapshot, id int64) (*dto.ExeatView, error) {
	r, err := loadRequest(ctx, s.api, viewer, id)
	if err != nil {
		return nil, err
	}
	if _, ok := r.WorkflowStatus(); !ok {
		s.logger.Warn("exeat request has unregistered status",
			zap.Int64("exeat_id", r.ID),
			zap.String("status", r.Status),
		)
	}
	return s.views.build(r, viewer), nil
}

func (s *exeatService) Create(ctx context.Context, viewer *session.Snapshot, app *model.ExeatApplication) (*dto.ExeatView, error) {
	switch {
	case viewer.Roles.Has(workflow.RoleStudent) && (app.StudentID == 0 || app.StudentID == viewer.User.ID):
		app.StudentID = viewer.User.ID
	case viewer.Roles.HasAny(onBehalfRoles...):
		if app.StudentID <= 0 {
			return nil, ErrStudentRequired
		}
	default:
		return nil, ErrCannotFileForOther
	}

	if err := app.Validate(); err != nil {
		return nil, err
	}

	r, err := s.api.CreateExeatRequest(ctx, viewer.Token, app)
	if err != nil {
		return nil, err
	}
	s.logger.Info("exeat request created",
		zap.Int64("exeat_id", r.ID),
		zap.Int64("student_id", app.StudentID),
		zap.Int64("filed_by", viewer.User.ID),
	)
	return s.views.build(r, viewer), nil
}

func (s *exeatService) Act(ctx context.Context, viewer *session.Snapshot, id int64, action workflow.Action, comment string) (*dto.ActionResult, error) {
	comment = strings.TrimSpace(comment)
	if (action == workflow.ActionReject || action == workflow.ActionComment) && comment == "" {
		return nil, ErrCommentRequired
	}

	// 1. current state from the system of record
	current, err := s.api.GetExeatRequest(ctx, viewer.Token, id)
	if err != nil {
		return nil, err
	}
	status, ok := current.WorkflowStatus()
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.KindUnknownStatus, "request %d has unknown status %q", id, current.Status)
	}

	// 2. advisory pre-check, no round-trip when it fails
	decision, err := s.machine.Authorize(status, action, viewer.Roles, current.TransitionContext())
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUnreachableTransition) {
			s.logger.Error("workflow table has no transition",
				zap.Int64("exeat_id", id),
				zap.String("status", string(status)),
				zap.String("action", string(action)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	// 3. submit exactly once
	updated, err := s.api.Act(ctx, viewer.Token, id, decision.Action, comment)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStaleState) {
			return s.refreshAfterConflict(ctx, viewer, id, decision, err)
		}
		return nil, err
	}
	if updated.ID == 0 {
		// empty body: read back what the server now holds
		if updated, err = s.api.GetExeatRequest(ctx, viewer.Token, id); err != nil {
			return nil, err
		}
	}

	if updated.Status != string(decision.Next) {
		s.logger.Warn("exeat api moved request to a different status than expected",
			zap.Int64("exeat_id", id),
			zap.String("expected", string(decision.Next)),
			zap.String("actual", updated.Status),
		)
	}
	s.logger.Info("exeat action applied",
		zap.Int64("exeat_id", id),
		zap.String("action", string(decision.Action)),
		zap.String("role", string(decision.Role)),
		zap.Int64("user_id", viewer.User.ID),
	)

	return &dto.ActionResult{
		Action:   decision.Action,
		ActedAs:  decision.Role,
		Expected: decision.Next,
		Exeat:    s.views.build(updated, viewer),
	}, nil
}

// refreshAfterConflict re-reads a request after a stale-state response so the
// caller can show what changed. The original error is always returned.
func (s *exeatService) refreshAfterConflict(ctx context.Context, viewer *session.Snapshot, id int64, d workflow.Decision, cause error) (*dto.ActionResult, error) {
	s.logger.Info("exeat action hit stale state, refreshing",
		zap.Int64("exeat_id", id),
		zap.String("action", string(d.Action)),
	)
	fresh, err := s.api.GetExeatRequest(ctx, viewer.Token, id)
	if err != nil {
		s.logger.Warn("refresh after stale state failed", zap.Int64("exeat_id", id), zap.Error(err))
		return nil, cause
	}
	return &dto.ActionResult{
		Action:   d.Action,
		ActedAs:  d.Role,
		Expected: d.Next,
		Exeat:    s.views.build(fresh, viewer),
	}, cause
}
