package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/user/domain"
	"github.com/smallbiznis/bellora/pkg/db"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Loyalty *config.LoyaltyHolder
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	loyalty *config.LoyaltyHolder
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("user.service"),
		repo:    p.Repo,
		loyalty: p.Loyalty,
	}
}

func (s *service) GetByID(ctx context.Context, req domain.GetUserRequest) (domain.User, error) {
	id, err := snowflake.ParseString(req.ID)
	if err != nil {
		return domain.User{}, domain.ErrInvalidID
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *service) List(ctx context.Context, req domain.ListUsersRequest) (domain.ListUsersResponse, error) {
	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(req.PageSize),
	}
	if page.PageSize <= 0 {
		page.PageSize = 50
	}

	users, err := s.repo.List(ctx, s.db, domain.ListUserFilter{
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
	}, page)
	if err != nil {
		return domain.ListUsersResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(users, page.PageSize, func(u *domain.User) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        u.ID.String(),
			CreatedAt: u.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	if len(users) > page.PageSize {
		users = users[:page.PageSize]
	}
	resp := domain.ListUsersResponse{PageInfo: *pageInfo}
	for _, u := range users {
		resp.Users = append(resp.Users, *u)
	}
	return resp, nil
}

// AdjustPoints applies a manual balance correction. Credits always land;
// debits run behind the same balance guard the booking engine uses, so an
// adjustment can never push a balance below zero.
func (s *service) AdjustPoints(ctx context.Context, req domain.AdjustPointsRequest) (domain.User, error) {
	if !req.Actor.Admin {
		return domain.User{}, domain.ErrForbidden
	}
	if req.Delta == 0 {
		return domain.User{}, domain.ErrInvalidDelta
	}
	id, err := snowflake.ParseString(req.UserID)
	if err != nil {
		return domain.User{}, domain.ErrInvalidID
	}

	cfg := s.loyalty.Get()
	err = db.RunInTxRetry(ctx, s.db, cfg.TxRetryAttempts, func(tx *gorm.DB) error {
		if req.Delta > 0 {
			ok, err := s.repo.AddPoints(ctx, tx, id, req.Delta)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrNotFound
			}
			return nil
		}

		debit := -req.Delta
		ok, err := s.repo.DeductPoints(ctx, tx, id, debit, debit)
		if err != nil {
			return err
		}
		if !ok {
			user, err := s.repo.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if user == nil {
				return domain.ErrNotFound
			}
			return domain.ErrInsufficientPoints
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}

	s.log.Info("points adjusted",
		zap.String("user_id", req.UserID),
		zap.Int64("delta", req.Delta),
		zap.Int64("balance", user.Points),
		zap.String("actor_id", req.Actor.UserID),
	)
	return *user, nil
}
