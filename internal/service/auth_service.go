package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/config"
	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
)

var (
	ErrNoExeatRole     = pkgerrors.New(pkgerrors.KindPermissionDenied, "your account has no role in the exeat system")
	ErrSessionNotFound = pkgerrors.New(pkgerrors.KindUnauthenticated, "your session has ended, please sign in again")
)

// AuthService signs users in and out of the portal.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout drops the session and revokes the portal token together.
	Logout(ctx context.Context, snap *session.Snapshot, tokenID string, tokenTTL time.Duration) error
	// Resolve loads the session behind a verified token.
	Resolve(ctx context.Context, sessionID, tokenID string) (*session.Snapshot, error)
	Me(snap *session.Snapshot) *dto.SessionResponse
}

type authService struct {
	cfg      *config.Config
	api      ExeatAPI
	sessions session.Store
	jwtMgr   *jwt.Manager
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(
	cfg *config.Config,
	api ExeatAPI,
	sessions session.Store,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		jwtMgr:   jwtMgr,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. identity comes from the exeat API
	login, err := s.api.Login(ctx, upstream.Credentials{Login: req.Login, Password: req.Password})
	if err != nil {
		return nil, err
	}

	// 2. resolve roles once; the snapshot is never mutated afterwards
	snap := session.New(login, s.now())
	if len(snap.Roles) == 0 {
		s.logger.Info("login refused, no exeat role", zap.Int64("user_id", login.User.ID))
		return nil, ErrNoExeatRole
	}

	if err := s.sessions.Save(ctx, snap, s.cfg.Auth.SessionTTL); err != nil {
		s.logger.Error("save session failed", zap.Error(err))
		return nil, err
	}

	// 3. the browser only gets a portal token naming the session
	token, err := s.jwtMgr.GenerateAccessToken(login.User.ID, snap.ID, snap.Roles.Strings())
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user signed in",
		zap.Int64("user_id", login.User.ID),
		zap.Strings("roles", snap.Roles.Strings()),
	)

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        *s.Me(snap),
	}, nil
}

func (s *authService) Logout(ctx context.Context, snap *session.Snapshot, tokenID string, tokenTTL time.Duration) error {
	if err := s.api.Logout(ctx, snap.Token); err != nil {
		// the exeat token expires on its own; the portal session must still go
		s.logger.Warn("exeat api logout failed", zap.Int64("user_id", snap.User.ID), zap.Error(err))
	}
	if err := s.sessions.Invalidate(ctx, snap.ID, tokenID, tokenTTL); err != nil {
		s.logger.Error("invalidate session failed", zap.String("session_id", snap.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Resolve(ctx context.Context, sessionID, tokenID string) (*session.Snapshot, error) {
	revoked, err := s.sessions.IsRevoked(ctx, tokenID)
	if err != nil {
		s.logger.Error("check token blacklist failed", zap.Error(err))
		return nil, err
	}
	if revoked {
		return nil, ErrSessionNotFound
	}
	snap, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("load session failed", zap.Error(err))
		return nil, err
	}
	return snap, nil
}

func (s *authService) Me(snap *session.Snapshot) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:          snap.User.ID,
		Name:        snap.User.FullName(),
		Email:       snap.User.Email,
		Type:        snap.User.Type,
		MatricNo:    snap.User.MatricNo,
		PrimaryRole: string(snap.PrimaryRole()),
		Roles:       snap.Roles.Strings(),
		IsStaff:     snap.Roles.IsStaff(),
		SignedInAt:  snap.CreatedAt.Format(time.RFC3339),
	}
}
