package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/booking/domain"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *repo) FindByBookingID(ctx context.Context, db *gorm.DB, bookingID string) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBookingFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	stmt := db.WithContext(ctx).Model(&domain.Booking{})
	if filter.UserID != 0 {
		stmt = stmt.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
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
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to,
		time.Now().UTC(),
		id,
		from,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ApplyDiscount(ctx context.Context, db *gorm.DB, id snowflake.ID, finalPrice, pointsUsed int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE bookings SET final_price = ?, points_used = ?, updated_at = ? WHERE id = ?`,
		finalPrice,
		pointsUsed,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) SetPaymentStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.PaymentStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE bookings SET payment_status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) CountActiveAt(ctx context.Context, db *gorm.DB, bookingDate, timeSlot string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("booking_date = ? AND time_slot = ? AND status = ?", bookingDate, timeSlot, domain.StatusBooked).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
