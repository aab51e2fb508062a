package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// DraftRepository stores unsubmitted exeat applications, one live draft per
// student.
type DraftRepository interface {
	GetByStudent(ctx context.Context, studentID int64) (*model.ExeatDraft, error)
	Create(ctx context.Context, draft *model.ExeatDraft) error
	// Update saves payload changes guarded by draft.Version; a concurrent
	// save returns ErrOptimisticLock.
	Update(ctx context.Context, draft *model.ExeatDraft) error
	DeleteByStudent(ctx context.Context, studentID int64) error
}

type draftRepo struct {
	db *gorm.DB
}

// NewDraftRepo creates a DraftRepository.
func NewDraftRepo(db *gorm.DB) DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) GetByStudent(ctx context.Context, studentID int64) (*model.ExeatDraft, error) {
	var draft model.ExeatDraft
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepo) Create(ctx context.Context, draft *model.ExeatDraft) error {
	if draft.Version == 0 {
		draft.Version = 1
	}
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *draftRepo) Update(ctx context.Context, draft *model.ExeatDraft) error {
	oldVersion := draft.Version
	result := r.db.WithContext(ctx).
		Model(&model.ExeatDraft{}).
		Where("draft_id = ? AND version = ?", draft.DraftID, oldVersion).
		Updates(map[string]interface{}{
			"payload": draft.Payload,
			"version": oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	draft.Version = oldVersion + 1
	return nil
}

func (r *draftRepo) DeleteByStudent(ctx context.Context, studentID int64) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&model.ExeatDraft{}).Error
}
