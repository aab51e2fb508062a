package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
)

// AuditService reads the exeat API's audit trail.
type AuditService interface {
	List(ctx context.Context, viewer *session.Snapshot, req *dto.AuditLogRequest) ([]model.AuditLogEntry, int64, error)
}

type auditService struct {
	api    ExeatAPI
	logger *zap.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(api ExeatAPI, logger *zap.Logger) AuditService {
	return &auditService{api: api, logger: logger}
}

// List returns entries newest first.
func (s *auditService) List(ctx context.Context, viewer *session.Snapshot, req *dto.AuditLogRequest) ([]model.AuditLogEntry, int64, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, 0, err
	}
	entries, err := s.api.ListAuditLogs(ctx, viewer.Token, upstream.AuditFilter{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	start, end := req.Bounds(len(entries))
	return entries[start:end], int64(len(entries)), nil
}
