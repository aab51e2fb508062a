package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onoyima/project-exeat-sub001/config"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mocks ──

type mockResolver struct {
	snap       *session.Snapshot
	err        error
	gotSession string
	gotToken   string
}

func (m *mockResolver) Resolve(_ context.Context, sessionID, tokenID string) (*session.Snapshot, error) {
	m.gotSession, m.gotToken = sessionID, tokenID
	return m.snap, m.err
}

type mockLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allowed, m.err
}

func testManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "middleware-test-secret", AccessTokenTTL: time.Hour})
}

func withSnapshot(snap *session.Snapshot) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeySession, snap)
		c.Next()
	}
}

func ok(c *gin.Context) { c.Status(http.StatusNoContent) }

// ── JWTAuth ──

func TestJWTAuth(t *testing.T) {
	mgr := testManager()
	token, err := mgr.GenerateAccessToken(7, "sess-1", []string{"student"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	student := &session.Snapshot{ID: "sess-1", User: model.User{ID: 7}, Roles: workflow.NewRoleSet(workflow.RoleStudent)}

	tests := []struct {
		name       string
		header     string
		resolver   *mockResolver
		wantStatus int
	}{
		{"missing header", "", &mockResolver{snap: student}, http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, &mockResolver{snap: student}, http.StatusUnauthorized},
		{"bad token", "Bearer not-a-jwt", &mockResolver{snap: student}, http.StatusUnauthorized},
		{"revoked session", "Bearer " + token, &mockResolver{err: pkgerrors.ErrUnauthenticated}, http.StatusUnauthorized},
		{"valid", "Bearer " + token, &mockResolver{snap: student}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/p", JWTAuth(mgr, tt.resolver), func(c *gin.Context) {
				if _, exists := c.Get(ContextKeySession); !exists {
					t.Error("session not set")
				}
				if uid, _ := c.Get(ContextKeyUserID); uid != int64(7) {
					t.Errorf("unexpected user id %v", uid)
				}
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestJWTAuth_PassesSessionAndTokenID(t *testing.T) {
	mgr := testManager()
	token, _ := mgr.GenerateAccessToken(7, "sess-42", nil)
	claims, _ := mgr.ParseToken(token)
	res := &mockResolver{snap: &session.Snapshot{ID: "sess-42"}}

	r := gin.New()
	r.GET("/p", JWTAuth(mgr, res), ok)
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if res.gotSession != "sess-42" || res.gotToken != claims.ID {
		t.Errorf("resolver got (%q, %q)", res.gotSession, res.gotToken)
	}
}

// ── RoleAuth / StaffOnly ──

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		name       string
		roles      []workflow.Role
		wantStatus int
	}{
		{"admin allowed", []workflow.Role{workflow.RoleAdmin}, http.StatusNoContent},
		{"one of many", []workflow.Role{workflow.RoleSecurity, workflow.RoleDean}, http.StatusNoContent},
		{"student refused", []workflow.Role{workflow.RoleStudent}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &session.Snapshot{Roles: workflow.NewRoleSet(tt.roles...)}
			r := gin.New()
			r.GET("/p", withSnapshot(snap), RoleAuth(workflow.RoleAdmin, workflow.RoleDean), ok)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRoleAuth_NoSession(t *testing.T) {
	r := gin.New()
	r.GET("/p", RoleAuth(workflow.RoleAdmin), ok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestStaffOnly(t *testing.T) {
	r := gin.New()
	r.GET("/student", withSnapshot(&session.Snapshot{Roles: workflow.NewRoleSet(workflow.RoleStudent)}), StaffOnly(), ok)
	r.GET("/porter", withSnapshot(&session.Snapshot{Roles: workflow.NewRoleSet(workflow.RoleHostelAdmin)}), StaffOnly(), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/student", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("student: expected 403, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/porter", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("hostel admin: expected 204, got %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    RateLimiter
		limit      int
		wantStatus int
	}{
		{"allowed", &mockLimiter{allowed: true}, 5, http.StatusNoContent},
		{"blocked", &mockLimiter{allowed: false}, 5, http.StatusTooManyRequests},
		{"limiter error lets through", &mockLimiter{err: errors.New("redis down")}, 5, http.StatusNoContent},
		{"nil limiter", nil, 5, http.StatusNoContent},
		{"disabled", &mockLimiter{allowed: false}, 0, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", RateLimit(tt.limiter, tt.limit, time.Minute), ok)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("POST", "/login", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRateLimit_KeyIncludesRoute(t *testing.T) {
	lim := &mockLimiter{allowed: true}
	r := gin.New()
	r.POST("/login", RateLimit(lim, 5, time.Minute), ok)

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	r.ServeHTTP(httptest.NewRecorder(), req)

	if len(lim.keys) != 1 || lim.keys[0] != "rate_limit:10.0.0.9:/login" {
		t.Errorf("unexpected keys %v", lim.keys)
	}
}

// ── RequestID / CORS / SecurityHeaders ──

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"adopts caller id", "abc-123_x.y", true},
		{"mints when missing", "", false},
		{"rejects unsafe characters", "abc\r\nX-Evil: 1", false},
		{"rejects overlong", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			r := gin.New()
			r.GET("/p", RequestID(), func(c *gin.Context) {
				fromCtx = c.GetString(requestIDKey)
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/p", nil)
			if tt.incoming != "" {
				req.Header[requestIDHeader] = []string{tt.incoming}
			}
			r.ServeHTTP(w, req)

			echoed := w.Header().Get(requestIDHeader)
			if echoed == "" || echoed != fromCtx {
				t.Fatalf("echoed %q, context %q", echoed, fromCtx)
			}
			if tt.keep != (echoed == tt.incoming) {
				t.Errorf("keep=%v but echoed %q for %q", tt.keep, echoed, tt.incoming)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://portal.example.edu/"}))
	r.GET("/p", ok)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Origin", "https://portal.example.edu")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "https://portal.example.edu" {
		t.Errorf("known origin not echoed: %v", w.Header())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("OPTIONS", "/p", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("unknown preflight: expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("OPTIONS", "/p", nil)
	req.Header.Set("Origin", "https://portal.example.edu")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("known preflight: got %d %v", w.Code, w.Header())
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/p", ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected no-store, got %q", w.Header().Get("Cache-Control"))
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain http")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS behind a TLS proxy")
	}
}

func TestBodyLimit_DeclaredLength(t *testing.T) {
	called := false
	r := gin.New()
	r.POST("/p", BodyLimit(8), func(c *gin.Context) {
		called = true
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/p", strings.NewReader("this body is too long")))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
	if called {
		t.Error("handler should not run")
	}
}
