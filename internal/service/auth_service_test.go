package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/config"
	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
)

func setupTestAuthService() (AuthService, *mockExeatAPI, *mockSessionStore, *jwt.Manager) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-tests",
			AccessTokenTTL: 15 * time.Minute,
			SessionTTL:     8 * time.Hour,
		},
	}
	api := newMockExeatAPI()
	store := newMockSessionStore()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, api, store, jwtMgr, zap.NewNop()), api, store, jwtMgr
}

func deanLogin() *model.LoginResult {
	return &model.LoginResult{
		Token: "upstream-token",
		Role:  "staff",
		User:  model.User{ID: 42, FirstName: "Grace", LastName: "Eze", Type: "staff", Email: "grace@example.edu"},
		Roles: []model.ExeatRoleRef{{Name: "dean"}, {Name: "deputy-dean"}},
	}
}

func TestLogin_Success(t *testing.T) {
	svc, api, store, jwtMgr := setupTestAuthService()
	api.login = deanLogin()

	result, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "grace@example.edu", Password: "secret"})
	if err != nil {
		t.Fatalf("Login should succeed, got %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("AccessToken should not be empty")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("expected ExpiresIn=900, got %d", result.ExpiresIn)
	}
	if result.User.PrimaryRole != "dean" {
		t.Errorf("expected primary role dean, got %s", result.User.PrimaryRole)
	}
	if !result.User.IsStaff {
		t.Error("a dean should be reported as staff")
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("token should parse: %v", err)
	}
	snap, ok := store.sessions[claims.SessionID]
	if !ok {
		t.Fatal("session should be stored under the token's session id")
	}
	if snap.Token != "upstream-token" {
		t.Errorf("session should keep the exeat api token, got %q", snap.Token)
	}
	if len(snap.Roles) != 2 {
		t.Errorf("expected 2 resolved roles, got %v", snap.Roles.Strings())
	}
}

func TestLogin_NoExeatRole(t *testing.T) {
	svc, api, store, _ := setupTestAuthService()
	login := deanLogin()
	login.Roles = nil
	api.login = login

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "x", Password: "y"})
	if !errors.Is(err, ErrNoExeatRole) {
		t.Errorf("expected ErrNoExeatRole, got %v", err)
	}
	if len(store.sessions) != 0 {
		t.Error("no session should be stored")
	}
}

func TestLogin_StudentFallback(t *testing.T) {
	svc, api, _, _ := setupTestAuthService()
	api.login = &model.LoginResult{
		Token: "t",
		User:  model.User{ID: 7, Type: "student", MatricNo: "VUG/CSC/21/0001"},
	}

	result, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "VUG/CSC/21/0001", Password: "y"})
	if err != nil {
		t.Fatalf("Login should succeed, got %v", err)
	}
	if result.User.PrimaryRole != "student" || result.User.IsStaff {
		t.Errorf("expected a student session, got %+v", result.User)
	}
}

func TestLogin_UpstreamRejects(t *testing.T) {
	svc, api, _, _ := setupTestAuthService()
	api.loginErr = pkgerrors.New(pkgerrors.KindUnauthenticated, "Invalid credentials")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "x", Password: "bad"})
	if pkgerrors.KindOf(err) != pkgerrors.KindUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", err)
	}
	if pkgerrors.MessageOf(err, "") != "Invalid credentials" {
		t.Errorf("server message should pass through, got %q", pkgerrors.MessageOf(err, ""))
	}
}

func TestLogin_SessionStoreFailure(t *testing.T) {
	svc, api, store, _ := setupTestAuthService()
	api.login = deanLogin()
	store.saveErr = errors.New("redis down")

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "x", Password: "y"}); err == nil {
		t.Error("expected an error when the session cannot be saved")
	}
}

func TestLogout_DropsSessionEvenIfUpstreamFails(t *testing.T) {
	svc, api, store, jwtMgr := setupTestAuthService()
	api.login = deanLogin()
	result, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "x", Password: "y"})
	if err != nil {
		t.Fatal(err)
	}
	claims, _ := jwtMgr.ParseToken(result.AccessToken)
	snap := store.sessions[claims.SessionID]

	api.logoutErr = pkgerrors.ErrNetwork
	if err := svc.Logout(context.Background(), snap, claims.ID, claims.RemainingTTL()); err != nil {
		t.Fatalf("Logout should succeed, got %v", err)
	}
	if api.logoutCalls != 1 {
		t.Errorf("expected one upstream logout, got %d", api.logoutCalls)
	}
	if _, err := svc.Resolve(context.Background(), claims.SessionID, claims.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("resolving a logged-out session should fail, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	svc, api, store, jwtMgr := setupTestAuthService()
	api.login = deanLogin()
	result, _ := svc.Login(context.Background(), &dto.LoginRequest{Login: "x", Password: "y"})
	claims, _ := jwtMgr.ParseToken(result.AccessToken)

	snap, err := svc.Resolve(context.Background(), claims.SessionID, claims.ID)
	if err != nil {
		t.Fatalf("Resolve should succeed, got %v", err)
	}
	if snap.User.ID != 42 {
		t.Errorf("expected user 42, got %d", snap.User.ID)
	}

	store.revoked[claims.ID] = true
	if _, err := svc.Resolve(context.Background(), claims.SessionID, claims.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("revoked token should not resolve, got %v", err)
	}

	if _, err := svc.Resolve(context.Background(), "missing", "other-jti"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session should not resolve, got %v", err)
	}
}
