package dto

// ── Auth ──

// LoginRequest is the portal login form. Login is an email or matric number.
type LoginRequest struct {
	Login    string `json:"login"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"` // seconds
	User        SessionResponse `json:"user"`
}

// SessionResponse describes the signed-in user (GET /auth/me).
type SessionResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Type        string   `json:"type,omitempty"`
	MatricNo    string   `json:"matric_no,omitempty"`
	PrimaryRole string   `json:"primary_role"`
	Roles       []string `json:"roles"`
	IsStaff     bool     `json:"is_staff"`
	SignedInAt  string   `json:"signed_in_at"`
}
