package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	// NewSession issues a session directly, used right after registration.
	NewSession(ctx context.Context, userID snowflake.ID, userAgent, ipAddress string) (*LoginResult, error)
}

// LoginRequest carries the credential pair. Identifier is an email or a
// mobile number, tried in that order.
type LoginRequest struct {
	Identifier string
	Password   string
	UserAgent  string
	IPAddress  string
}

type LoginResult struct {
	User      userdomain.User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
