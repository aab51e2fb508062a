package model

import (
	"encoding/json"
	"strings"
)

// User is the identity returned by the exeat API at login.
type User struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"fname"`
	MiddleName string `json:"mname,omitempty"`
	LastName   string `json:"lname"`
	Email      string `json:"email"`
	Type       string `json:"type,omitempty"` // student | staff
	MatricNo   string `json:"matric_no,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// FullName joins the non-empty name parts.
func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ExeatRoleRef is one exeat-system role attached to a staff member.
type ExeatRoleRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// UnmarshalJSON accepts either a bare role name or a role object.
func (r *ExeatRoleRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = ExeatRoleRef{Name: name}
		return nil
	}
	type plain ExeatRoleRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ExeatRoleRef(p)
	return nil
}

// LoginResult is the exeat API's answer to a successful login.
type LoginResult struct {
	Token string         `json:"token"`
	Role  string         `json:"role"`
	User  User           `json:"user"`
	Roles []ExeatRoleRef `json:"roles"`
}
