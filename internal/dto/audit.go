package dto

// AuditLogRequest is the query of GET /admin/audit-logs.
type AuditLogRequest struct {
	PaginationRequest
	TargetType string `form:"target_type"`
	TargetID   int64  `form:"target_id" binding:"omitempty,min=1"`
}
