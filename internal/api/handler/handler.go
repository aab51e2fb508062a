package handler

import "github.com/onoyima/project-exeat-sub001/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth     *AuthHandler
	Exeat    *ExeatHandler
	Export   *ExportHandler
	Debt     *DebtHandler
	Admin    *AdminHandler
	Draft    *DraftHandler
	Workflow *WorkflowHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Exeat:    NewExeatHandler(svc.Exeat, svc.Countdown, svc.Calendar),
		Export:   NewExportHandler(svc.Export),
		Debt:     NewDebtHandler(svc.Debt),
		Admin:    NewAdminHandler(svc.StaffRole, svc.Audit),
		Draft:    NewDraftHandler(svc.Draft),
		Workflow: NewWorkflowHandler(svc.Workflow),
	}
}
