package dto

import "github.com/onoyima/project-exeat-sub001/internal/workflow"

// GateView describes who may act on a status and how.
type GateView struct {
	Status   workflow.Status   `json:"status"`
	Label    string            `json:"label"`
	Severity workflow.Severity `json:"severity"`
	Terminal bool              `json:"terminal"`
	Position int               `json:"position"`
	Roles    []string          `json:"roles"`
	Actions  []workflow.Action `json:"actions"`
}

// WorkflowResponse is the status registry joined with the role-gate table
// (GET /workflow).
type WorkflowResponse struct {
	FinalGate workflow.FinalGate `json:"final_gate"`
	Statuses  []GateView         `json:"statuses"`
}
