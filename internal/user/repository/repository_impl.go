package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/user/domain"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	return r.findOne(ctx, db, "id = ?", id)
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return r.findOne(ctx, db, "email = ?", email)
}

func (r *repo) FindByMobile(ctx context.Context, db *gorm.DB, mobile string) (*domain.User, error) {
	return r.findOne(ctx, db, "mobile_number = ?", mobile)
}

func (r *repo) FindByReferralCode(ctx context.Context, db *gorm.DB, code string) (*domain.User, error) {
	return r.findOne(ctx, db, "referral_code = ?", code)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListUserFilter, page pagination.Pagination) ([]*domain.User, error) {
	var users []*domain.User
	stmt := db.WithContext(ctx).Model(&domain.User{})
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	if filter.MobileNumber != "" {
		stmt = stmt.Where("mobile_number = ?", filter.MobileNumber)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) AddPoints(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE users SET points = points + ?, updated_at = ? WHERE id = ?`,
		amount,
		time.Now().UTC(),
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) DeductPoints(ctx context.Context, db *gorm.DB, id snowflake.ID, amount, minPoints int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE users SET points = points - ?, updated_at = ? WHERE id = ? AND points >= ?`,
		amount,
		time.Now().UTC(),
		id,
		minPoints,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
