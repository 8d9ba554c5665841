package signup

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	authdomain "github.com/smallbiznis/bellora/internal/auth/domain"
	"github.com/smallbiznis/bellora/internal/auth/password"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	referraldomain "github.com/smallbiznis/bellora/internal/referral/domain"
	"github.com/smallbiznis/bellora/internal/signup/domain"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"github.com/smallbiznis/bellora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Params struct {
	fx.In
	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Users     userdomain.Repository
	Auth      authdomain.Service
	Referrals referraldomain.Service
	Loyalty   *config.LoyaltyHolder
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	users     userdomain.Repository
	auth      authdomain.Service
	referrals referraldomain.Service
	loyalty   *config.LoyaltyHolder
}

func NewService(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("signup.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		users:     p.Users,
		auth:      p.Auth,
		referrals: p.Referrals,
		loyalty:   p.Loyalty,
	}
}

// Signup registers a customer, credits the welcome bonus and triggers the
// referral award. The referral step runs after the account exists and its
// failures are logged, never surfaced: registration does not break because
// a referral code was stale.
func (s *service) Signup(ctx context.Context, req domain.Request) (*domain.Result, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	mobile := strings.TrimSpace(req.MobileNumber)
	if name == "" || mobile == "" {
		return nil, domain.ErrInvalidRequest
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidRequest
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidRequest
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	cfg := s.loyalty.Get()
	now := s.clock.Now()
	user := &userdomain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		MobileNumber: mobile,
		PasswordHash: &hashed,
		Points:       cfg.SignupBonus,
		ReferralCode: uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		user.ReferredBy = &code
	}

	if err := s.users.Insert(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	if err := s.referrals.OnUserCreated(ctx, user); err != nil {
		s.log.Error("referral award failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	session, err := s.auth.NewSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("referred", user.ReferredBy != nil),
	)
	return &domain.Result{
		User:      *user,
		RawToken:  session.RawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.SessionID,
	}, nil
}
