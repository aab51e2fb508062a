package service

import (
	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// WorkflowService exposes the effective status registry and gate table so the
// UI can render filters and legends without hard-coding statuses.
type WorkflowService interface {
	Describe() *dto.WorkflowResponse
}

type workflowService struct {
	machine *workflow.Machine
}

// NewWorkflowService creates a WorkflowService.
func NewWorkflowService(machine *workflow.Machine) WorkflowService {
	return &workflowService{machine: machine}
}

// ────────────────────── Describe ──────────────────────

func (s *workflowService) Describe() *dto.WorkflowResponse {
	gates := s.machine.Gates()
	resp := &dto.WorkflowResponse{
		FinalGate: gates.Config().FinalGate,
		Statuses:  make([]dto.GateView, 0, len(workflow.Registry())),
	}
	for _, info := range workflow.Registry() {
		v := dto.GateView{
			Status:   info.Status,
			Label:    info.Label,
			Severity: info.Severity,
			Terminal: info.Terminal,
			Position: info.Position,
			Roles:    []string{},
			Actions:  []workflow.Action{},
		}
		if g, ok := gates.Lookup(info.Status); ok {
			v.Roles = g.Roles.Strings()
			v.Actions = g.ActionList()
		}
		resp.Statuses = append(resp.Statuses, v)
	}
	return resp
}
