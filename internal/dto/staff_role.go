package dto

// AssignRoleRequest is the body of the assign and unassign endpoints.
type AssignRoleRequest struct {
	ExeatRoleID int64 `json:"exeat_role_id" binding:"required,min=1"`
}
