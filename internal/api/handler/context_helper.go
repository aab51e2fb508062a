package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/internal/api/middleware"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
	"github.com/onoyima/project-exeat-sub001/pkg/response"
)

// MustGetSession returns the snapshot injected by JWTAuth.
// When it is missing a 401 is written; callers return when ok is false.
func MustGetSession(c *gin.Context) (*session.Snapshot, bool) {
	v, exists := c.Get(middleware.ContextKeySession)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "authentication required")
		return nil, false
	}
	snap, ok := v.(*session.Snapshot)
	if !ok || snap == nil {
		response.Unauthorized(c, response.CodeUnauthorized, "authentication required")
		return nil, false
	}
	return snap, true
}

// MustGetClaims returns the verified portal token claims.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextKeyClaims)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "authentication required")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, response.CodeUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}

// MustParseID reads a positive int64 path parameter.
func MustParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeParamError, "invalid "+name)
		return 0, false
	}
	return id, true
}
