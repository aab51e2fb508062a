package model

import "time"

// StaffRoleAssignment links a staff member to an exeat-system role.
type StaffRoleAssignment struct {
	StaffID     int64         `json:"staff_id"`
	ExeatRoleID int64         `json:"exeat_role_id"`
	AssignedAt  time.Time     `json:"assigned_at"`
	Role        *ExeatRoleRef `json:"role,omitempty"`
}
