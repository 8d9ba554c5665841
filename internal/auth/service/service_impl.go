package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/auth/domain"
	"github.com/smallbiznis/bellora/internal/auth/password"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTokenBytes = 32

type Params struct {
	fx.In
	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	GenID    *snowflake.Node
	Clock    clock.Clock
	Sessions domain.SessionRepository
	Users    userdomain.Repository
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	sessions domain.SessionRepository
	users    userdomain.Repository
	ttl      time.Duration
}

func New(p Params) domain.Service {
	ttl := time.Duration(p.Config.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		sessions: p.Sessions,
		users:    p.Users,
		ttl:      ttl,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.findAccount(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.NewSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}
	result.User = *user
	return result, nil
}

func (s *service) findAccount(ctx context.Context, identifier string) (*userdomain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.users.FindByEmail(ctx, s.db, strings.ToLower(identifier))
	}
	return s.users.FindByMobile(ctx, s.db, identifier)
}

func (s *service) NewSession(ctx context.Context, userID snowflake.ID, userAgent, ipAddress string) (*domain.LoginResult, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           userID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(userAgent),
		IPAddress:        strings.TrimSpace(ipAddress),
		ExpiresAt:        now.Add(s.ttl),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessions.CreateSession(ctx, s.db, session); err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessions.GetSessionByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessions.RevokeSession(ctx, s.db, session.ID, s.clock.Now())
}

func (s *service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessions.GetSessionByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessions.UpdateLastSeen(ctx, s.db, session.ID, now); err != nil {
		return nil, err
	}

	return session, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
