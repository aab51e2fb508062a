package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// AdminHandler serves staff role management and the audit trail.
type AdminHandler struct {
	staffRoleSvc service.StaffRoleService
	auditSvc     service.AuditService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(staffRoleSvc service.StaffRoleService, auditSvc service.AuditService) *AdminHandler {
	return &AdminHandler{staffRoleSvc: staffRoleSvc, auditSvc: auditSvc}
}

// ListStaffRoles GET /api/v1/admin/staff/:id/exeat-roles
func (h *AdminHandler) ListStaffRoles(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	staffID, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	list, err := h.staffRoleSvc.List(c.Request.Context(), snap, staffID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AssignRole POST /api/v1/admin/staff/:id/assign-exeat-role
func (h *AdminHandler) AssignRole(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	staffID, ok := MustParseID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "exeat_role_id is required")
		return
	}

	a, err := h.staffRoleSvc.Assign(c.Request.Context(), snap, staffID, req.ExeatRoleID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, a)
}

// UnassignRole DELETE /api/v1/admin/staff/:id/unassign-exeat-role
func (h *AdminHandler) UnassignRole(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	staffID, ok := MustParseID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "exeat_role_id is required")
		return
	}

	if err := h.staffRoleSvc.Unassign(c.Request.Context(), snap, staffID, req.ExeatRoleID); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, nil)
}

// AuditLogs GET /api/v1/admin/audit-logs?target_type=&target_id=
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	snap, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.AuditLogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeParamError, "invalid query parameters")
		return
	}

	list, total, err := h.auditSvc.List(c.Request.Context(), snap, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
