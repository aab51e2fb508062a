package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/repository"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── Draft errors ──

var (
	ErrDraftNotFound    = pkgerrors.New(pkgerrors.KindNotFound, "you have no saved draft")
	ErrDraftStudentOnly = pkgerrors.New(pkgerrors.KindPermissionDenied, "only students keep exeat drafts")
)

// DraftService keeps one in-progress application per student until it is
// submitted or discarded.
type DraftService interface {
	Get(ctx context.Context, viewer *session.Snapshot) (*dto.DraftResponse, error)
	// Save creates the draft when req.Version is 0, otherwise updates it if
	// the stored version still matches.
	Save(ctx context.Context, viewer *session.Snapshot, req *dto.SaveDraftRequest) (*dto.DraftResponse, error)
	Delete(ctx context.Context, viewer *session.Snapshot) error
	// Submit validates the draft, creates the exeat request and then drops
	// the draft.
	Submit(ctx context.Context, viewer *session.Snapshot) (*dto.ExeatView, error)
}

type draftService struct {
	repo   *repository.Repository
	exeats ExeatService
	logger *zap.Logger
}

// NewDraftService creates a DraftService.
func NewDraftService(repo *repository.Repository, exeats ExeatService, logger *zap.Logger) DraftService {
	return &draftService{repo: repo, exeats: exeats, logger: logger}
}

func requireStudent(viewer *session.Snapshot) error {
	if !viewer.Roles.Has(workflow.RoleStudent) {
		return ErrDraftStudentOnly
	}
	return nil
}

func toDraftResponse(d *model.ExeatDraft) *dto.DraftResponse {
	app := d.Payload.Data()
	resp := &dto.DraftResponse{
		DraftID:     d.DraftID,
		Version:     d.Version,
		Application: app,
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
	if err := app.Validate(); err != nil {
		resp.Problems = []string{pkgerrors.MessageOf(err, err.Error())}
	}
	return resp
}

func (s *draftService) load(ctx context.Context, viewer *session.Snapshot) (*model.ExeatDraft, error) {
	d, err := s.repo.Draft.GetByStudent(ctx, viewer.User.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		s.logger.Error("load draft failed", zap.Int64("student_id", viewer.User.ID), zap.Error(err))
		return nil, err
	}
	return d, nil
}

func (s *draftService) Get(ctx context.Context, viewer *session.Snapshot) (*dto.DraftResponse, error) {
	if err := requireStudent(viewer); err != nil {
		return nil, err
	}
	d, err := s.load(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

func (s *draftService) Save(ctx context.Context, viewer *session.Snapshot, req *dto.SaveDraftRequest) (*dto.DraftResponse, error) {
	if err := requireStudent(viewer); err != nil {
		return nil, err
	}
	app := req.Application
	app.StudentID = viewer.User.ID

	existing, err := s.load(ctx, viewer)
	switch {
	case errors.Is(err, ErrDraftNotFound):
		if req.Version != 0 {
			// the draft was submitted or discarded elsewhere
			return nil, pkgerrors.ErrOptimisticLock
		}
		d := &model.ExeatDraft{
			StudentID: viewer.User.ID,
			Payload:   datatypes.NewJSONType(app),
		}
		if err := s.repo.Draft.Create(ctx, d); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// another tab created the draft first
				return nil, pkgerrors.ErrOptimisticLock
			}
			s.logger.Error("create draft failed", zap.Int64("student_id", viewer.User.ID), zap.Error(err))
			return nil, err
		}
		return toDraftResponse(d), nil
	case err != nil:
		return nil, err
	}

	if !existing.Matches(req.Version) {
		return nil, pkgerrors.ErrOptimisticLock
	}
	existing.Payload = datatypes.NewJSONType(app)
	if err := s.repo.Draft.Update(ctx, existing); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update draft failed", zap.String("draft_id", existing.DraftID), zap.Error(err))
		}
		return nil, err
	}
	return toDraftResponse(existing), nil
}

func (s *draftService) Delete(ctx context.Context, viewer *session.Snapshot) error {
	if err := requireStudent(viewer); err != nil {
		return err
	}
	if _, err := s.load(ctx, viewer); err != nil {
		return err
	}
	return s.repo.Draft.DeleteByStudent(ctx, viewer.User.ID)
}

func (s *draftService) Submit(ctx context.Context, viewer *session.Snapshot) (*dto.ExeatView, error) {
	if err := requireStudent(viewer); err != nil {
		return nil, err
	}
	d, err := s.load(ctx, viewer)
	if err != nil {
		return nil, err
	}
	app := d.Payload.Data()

	view, err := s.exeats.Create(ctx, viewer, &app)
	if err != nil {
		return nil, err
	}

	// the request exists now; a leftover draft is only a nuisance
	if err := s.repo.Draft.DeleteByStudent(ctx, viewer.User.ID); err != nil {
		s.logger.Error("delete submitted draft failed", zap.String("draft_id", d.DraftID), zap.Error(err))
	}
	return view, nil
}
