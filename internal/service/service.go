package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/config"
	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/repository"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
)

// Service aggregates every service of the portal.
type Service struct {
	Auth      AuthService
	Exeat     ExeatService
	Countdown CountdownService
	Debt      DebtService
	StaffRole StaffRoleService
	Audit     AuditService
	Draft     DraftService
	Export    ExportService
	Calendar  CalendarService
	Workflow  WorkflowService
}

// NewService wires the services together.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	api ExeatAPI,
	sessions session.Store,
	machine *workflow.Machine,
	ticker *countdown.Ticker,
	loc *time.Location,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	exeats := NewExeatService(api, machine, loc, logger)
	return &Service{
		Auth:      NewAuthService(cfg, api, sessions, jwtMgr, logger),
		Exeat:     exeats,
		Countdown: NewCountdownService(api, ticker, loc, logger),
		Debt:      NewDebtService(api, logger),
		StaffRole: NewStaffRoleService(api, logger),
		Audit:     NewAuditService(api, logger),
		Draft:     NewDraftService(repo, exeats, logger),
		Export:    NewExportService(api, loc, logger),
		Calendar:  NewCalendarService(api, loc, cfg.Server.BaseURL, logger),
		Workflow:  NewWorkflowService(machine),
	}
}
