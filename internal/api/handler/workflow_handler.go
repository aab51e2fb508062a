package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// WorkflowHandler serves the effective workflow description.
type WorkflowHandler struct {
	workflowSvc service.WorkflowService
}

// NewWorkflowHandler creates a WorkflowHandler.
func NewWorkflowHandler(workflowSvc service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowSvc: workflowSvc}
}

// Describe GET /api/v1/workflow
func (h *WorkflowHandler) Describe(c *gin.Context) {
	response.OK(c, h.workflowSvc.Describe())
}
