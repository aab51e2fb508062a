package service

import (
	"context"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// loadRequest fetches exeat request id with the viewer's token. Staff may read
// any request; a student only their own. A request that carries no student ID
// is treated as someone else's.
func loadRequest(ctx context.Context, api ExeatAPI, viewer *session.Snapshot, id int64) (*model.ExeatRequest, error) {
	r, err := api.GetExeatRequest(ctx, viewer.Token, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Roles.IsStaff() && r.StudentID != viewer.User.ID {
		return nil, pkgerrors.ErrPermissionDenied
	}
	return r, nil
}
