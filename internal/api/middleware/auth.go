package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// Context keys set by JWTAuth.
const (
	ContextKeySession = "session"
	ContextKeyClaims  = "claims"
	ContextKeyUserID  = "user_id"
)

// SessionResolver loads the session behind a verified portal token.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID, tokenID string) (*session.Snapshot, error)
}

// JWTAuth verifies the Bearer portal token and loads its session snapshot.
// Revoked tokens and expired sessions are rejected with 401.
func JWTAuth(jwtMgr *jwt.Manager, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "token is invalid or expired")
			c.Abort()
			return
		}

		snap, err := sessions.Resolve(c.Request.Context(), claims.SessionID, claims.ID)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextKeySession, snap)
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, snap.User.ID)

		c.Next()
	}
}

// RoleAuth lets the request through when the session holds any of roles.
func RoleAuth(roles ...workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextKeySession)
		snap, ok := v.(*session.Snapshot)
		if !exists || !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "authentication required")
			c.Abort()
			return
		}

		if snap.Roles.HasAny(roles...) {
			c.Next()
			return
		}

		response.Forbidden(c, response.CodeForbidden, "you are not allowed to access this resource")
		c.Abort()
	}
}

// StaffOnly lets through any session holding a staff role.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(ContextKeySession)
		snap, ok := v.(*session.Snapshot)
		if !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !snap.Roles.IsStaff() {
			response.Forbidden(c, response.CodeForbidden, "staff only")
			c.Abort()
			return
		}
		c.Next()
	}
}
