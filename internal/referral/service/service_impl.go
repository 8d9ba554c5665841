package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/observability"
	"github.com/smallbiznis/bellora/internal/referral/domain"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"github.com/smallbiznis/bellora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Users   userdomain.Repository
	Loyalty *config.LoyaltyHolder
	Metrics *observability.Metrics `optional:"true"`
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	users   userdomain.Repository
	loyalty *config.LoyaltyHolder
	metrics *observability.Metrics
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("referral.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		users:   p.Users,
		loyalty: p.Loyalty,
		metrics: p.Metrics,
	}
}

// OnUserCreated credits the referrer named by the new user's referral
// code. The marker row keyed on (referrer, referred user) makes the award
// idempotent: replays insert nothing and credit nothing. An unknown or
// blank code is a silent no-op, registration never fails on referral
// problems.
func (s *service) OnUserCreated(ctx context.Context, user *userdomain.User) error {
	if user == nil || user.ReferredBy == nil {
		return nil
	}
	code := *user.ReferredBy
	if code == "" {
		return nil
	}

	referrer, err := s.findReferrer(ctx, code)
	if err != nil {
		return err
	}
	if referrer == nil {
		s.log.Info("referral code matched no user",
			zap.String("referred_user_id", user.ID.String()),
		)
		return nil
	}
	if referrer.ID == user.ID {
		s.log.Warn("self referral ignored", zap.String("user_id", user.ID.String()))
		return nil
	}

	cfg := s.loyalty.Get()
	awarded := false
	err = db.RunInTxRetry(ctx, s.db, cfg.TxRetryAttempts, func(tx *gorm.DB) error {
		awarded = false
		inserted, err := s.repo.Insert(ctx, tx, &domain.ReferralRecord{
			ID:                 s.genID.Generate(),
			ReferrerID:         referrer.ID,
			ReferredUserID:     user.ID,
			ReferredUserMobile: user.MobileNumber,
			BonusPoints:        cfg.ReferralBonus,
			CreatedAt:          s.clock.Now(),
		})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		ok, err := s.users.AddPoints(ctx, tx, referrer.ID, cfg.ReferralBonus)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("referrer vanished mid-award")
		}
		awarded = true
		return nil
	})
	if err != nil {
		return err
	}

	if awarded {
		s.metrics.RecordReferralAward()
		s.log.Info("referral bonus awarded",
			zap.String("referrer_id", referrer.ID.String()),
			zap.String("referred_user_id", user.ID.String()),
			zap.Int64("bonus_points", cfg.ReferralBonus),
		)
	}
	return nil
}

// findReferrer resolves a referral code, trying the mobile number first
// since codes are shared as phone numbers, then the generated code.
func (s *service) findReferrer(ctx context.Context, code string) (*userdomain.User, error) {
	referrer, err := s.users.FindByMobile(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if referrer != nil {
		return referrer, nil
	}
	return s.users.FindByReferralCode(ctx, s.db, code)
}

func (s *service) MyReferrals(ctx context.Context, req domain.ListReferralsRequest) (domain.ListReferralsResponse, error) {
	id, err := snowflake.ParseString(req.Actor.UserID)
	if err != nil {
		return domain.ListReferralsResponse{}, userdomain.ErrInvalidID
	}

	me, err := s.users.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ListReferralsResponse{}, err
	}
	if me == nil {
		return domain.ListReferralsResponse{}, userdomain.ErrNotFound
	}

	records, err := s.repo.ListByReferrer(ctx, s.db, id)
	if err != nil {
		return domain.ListReferralsResponse{}, err
	}

	resp := domain.ListReferralsResponse{
		ReferralCode: me.ReferralCode,
		Referrals:    []domain.ReferralRecord{},
	}
	for _, r := range records {
		resp.Referrals = append(resp.Referrals, *r)
	}
	return resp, nil
}
