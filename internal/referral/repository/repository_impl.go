package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/referral/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.ReferralRecord) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO referral_records (
			id, referrer_id, referred_user_id, referred_user_mobile, bonus_points, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (referrer_id, referred_user_id) DO NOTHING`,
		record.ID,
		record.ReferrerID,
		record.ReferredUserID,
		record.ReferredUserMobile,
		record.BonusPoints,
		record.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListByReferrer(ctx context.Context, db *gorm.DB, referrerID snowflake.ID) ([]*domain.ReferralRecord, error) {
	var records []*domain.ReferralRecord
	err := db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
