package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListBookingFilter struct {
	UserID snowflake.ID
	Status Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByBookingID(ctx context.Context, db *gorm.DB, bookingID string) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, filter ListBookingFilter, page pagination.Pagination) ([]*Booking, error)

	// UpdateStatus moves the booking from one status to another in a single
	// guarded statement; returns false when the booking was no longer in the
	// expected status and nothing was written.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status) (bool, error)
	// ApplyDiscount records the completion outcome on the booking row.
	ApplyDiscount(ctx context.Context, db *gorm.DB, id snowflake.ID, finalPrice, pointsUsed int64) error
	// SetPaymentStatus flags settlement; payment is collected at the salon
	// when the appointment completes.
	SetPaymentStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status PaymentStatus) error
	// CountActiveAt counts booked appointments occupying the given slot.
	CountActiveAt(ctx context.Context, db *gorm.DB, bookingDate, timeSlot string) (int64, error)
}
