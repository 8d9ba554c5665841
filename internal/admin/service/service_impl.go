package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/admin/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type gate struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Gate {
	return &gate{
		db:   p.DB,
		log:  p.Log.Named("admin.gate"),
		repo: p.Repo,
	}
}

// IsAdmin checks the marker row at call time. The result is never cached,
// so revoking the row takes effect on the next call. Any lookup error
// denies; privilege is never granted on a failed check.
func (g *gate) IsAdmin(ctx context.Context, userID snowflake.ID) bool {
	ok, err := g.repo.Exists(ctx, g.db, userID)
	if err != nil {
		g.log.Error("admin lookup failed, denying",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return false
	}
	return ok
}
