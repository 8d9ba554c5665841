package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ReferralRecord marks that a referrer was credited for one referred
// user. The composite unique index is the idempotency marker: the bonus
// is paid only when inserting the record actually lands a new row.
type ReferralRecord struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	ReferrerID         snowflake.ID `gorm:"column:referrer_id;not null;uniqueIndex:idx_referral_once" json:"referrer_id"`
	ReferredUserID     snowflake.ID `gorm:"column:referred_user_id;not null;uniqueIndex:idx_referral_once" json:"referred_user_id"`
	ReferredUserMobile string       `gorm:"column:referred_user_mobile" json:"referred_user_mobile"`
	BonusPoints        int64        `gorm:"column:bonus_points;not null" json:"bonus_points"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ReferralRecord) TableName() string { return "referral_records" }
