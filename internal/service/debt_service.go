package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── Debt errors ──

var (
	ErrDebtStaffOnly = pkgerrors.New(pkgerrors.KindPermissionDenied, "only staff can manage debts")
	ErrNotYourDebt   = pkgerrors.New(pkgerrors.KindPermissionDenied, "this debt belongs to another student")
)

// debtManagerRoles may record and clear debts.
var debtManagerRoles = []workflow.Role{workflow.RoleAdmin, workflow.RoleDean, workflow.RoleDeputyDean}

// DebtService handles late-return debts. The exeat API owns them; this
// service only enforces the lifecycle before forwarding.
type DebtService interface {
	List(ctx context.Context, viewer *session.Snapshot, req *dto.DebtListRequest) ([]model.Debt, int64, error)
	Create(ctx context.Context, viewer *session.Snapshot, req *dto.CreateDebtRequest) (*model.Debt, error)
	Clear(ctx context.Context, viewer *session.Snapshot, id int64, notes string) (*model.Debt, error)
	VerifyPayment(ctx context.Context, viewer *session.Snapshot, id int64, reference string) (*model.PaymentVerification, error)
}

type debtService struct {
	api    ExeatAPI
	logger *zap.Logger
}

// NewDebtService creates a DebtService.
func NewDebtService(api ExeatAPI, logger *zap.Logger) DebtService {
	return &debtService{api: api, logger: logger}
}

func (s *debtService) List(ctx context.Context, viewer *session.Snapshot, req *dto.DebtListRequest) ([]model.Debt, int64, error) {
	f := upstream.DebtFilter{StudentID: req.StudentID, PaymentStatus: req.PaymentStatus}
	if !viewer.Roles.IsStaff() {
		f.StudentID = viewer.User.ID
	}
	debts, err := s.api.ListDebts(ctx, viewer.Token, f)
	if err != nil {
		return nil, 0, err
	}
	start, end := req.Bounds(len(debts))
	return debts[start:end], int64(len(debts)), nil
}

func (s *debtService) Create(ctx context.Context, viewer *session.Snapshot, req *dto.CreateDebtRequest) (*model.Debt, error) {
	if !viewer.Roles.HasAny(debtManagerRoles...) {
		return nil, ErrDebtStaffOnly
	}
	debt, err := s.api.CreateDebt(ctx, viewer.Token, upstream.DebtInput{
		StudentID:      req.StudentID,
		ExeatRequestID: req.ExeatRequestID,
		Amount:         req.Amount,
		OverdueHours:   req.OverdueHours,
		Notes:          strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("debt recorded",
		zap.Int64("debt_id", debt.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("recorded_by", viewer.User.ID),
	)
	return debt, nil
}

func (s *debtService) Clear(ctx context.Context, viewer *session.Snapshot, id int64, notes string) (*model.Debt, error) {
	if !viewer.Roles.HasAny(debtManagerRoles...) {
		return nil, ErrDebtStaffOnly
	}
	notes = strings.TrimSpace(notes)

	current, err := s.api.GetDebt(ctx, viewer.Token, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanClear(current.DebtStatus(), notes); err != nil {
		return nil, err
	}

	debt, err := s.api.ClearDebt(ctx, viewer.Token, id, notes)
	if err != nil {
		return nil, err
	}
	s.logger.Info("debt cleared", zap.Int64("debt_id", id), zap.Int64("cleared_by", viewer.User.ID))
	return debt, nil
}

func (s *debtService) VerifyPayment(ctx context.Context, viewer *session.Snapshot, id int64, reference string) (*model.PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "a payment reference is required")
	}

	current, err := s.api.GetDebt(ctx, viewer.Token, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Roles.IsStaff() && current.StudentID != viewer.User.ID {
		return nil, ErrNotYourDebt
	}
	if err := workflow.CanVerifyPayment(current.DebtStatus()); err != nil {
		return nil, err
	}
	return s.api.VerifyPayment(ctx, viewer.Token, id, reference)
}
