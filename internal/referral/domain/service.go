package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert lands the referral marker; returns false when the pair was
	// already recorded and nothing was written.
	Insert(ctx context.Context, db *gorm.DB, record *ReferralRecord) (bool, error)
	ListByReferrer(ctx context.Context, db *gorm.DB, referrerID snowflake.ID) ([]*ReferralRecord, error)
}

type ListReferralsRequest struct {
	Actor userdomain.Actor
}

type ListReferralsResponse struct {
	// ReferralCode is the caller's own code, shown alongside the people
	// they already brought in.
	ReferralCode string           `json:"referral_code"`
	Referrals    []ReferralRecord `json:"referrals"`
}

type Service interface {
	// OnUserCreated awards the referral bonus for a freshly registered
	// user. Safe to call any number of times for the same user.
	OnUserCreated(ctx context.Context, user *userdomain.User) error
	MyReferrals(ctx context.Context, req ListReferralsRequest) (ListReferralsResponse, error)
}
