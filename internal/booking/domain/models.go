package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the booking lifecycle state. Transitions are guarded in the
// store; completion is the only transition that touches points.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusBooked, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// PaymentStatus tracks settlement separately from the lifecycle; payment
// is collected at the salon, so bookings start unpaid and flip on
// completion.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// Booking is a salon appointment. PriceLabel carries the catalog's
// free-text price as shown to the customer; FinalPrice and PointsUsed are
// written exactly once, by the completion transaction.
type Booking struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	BookingID     string            `gorm:"column:booking_id;not null;uniqueIndex" json:"booking_id"`
	UserID        snowflake.ID      `gorm:"column:user_id;not null;index" json:"user_id"`
	ServiceName   string            `gorm:"column:service_name;not null" json:"service_name"`
	SubItemName   string            `gorm:"column:sub_item_name" json:"sub_item_name,omitempty"`
	PriceLabel    string            `gorm:"column:price_label;not null" json:"price_label"`
	BookingDate   string            `gorm:"column:booking_date;not null;index:idx_bookings_slot" json:"booking_date"`
	TimeSlot      string            `gorm:"column:time_slot;not null;index:idx_bookings_slot" json:"time_slot"`
	Status        Status            `gorm:"not null;default:booked" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"column:payment_status;not null;default:unpaid" json:"payment_status"`
	FinalPrice    *int64            `gorm:"column:final_price" json:"final_price,omitempty"`
	PointsUsed    *int64            `gorm:"column:points_used" json:"points_used,omitempty"`
	Notes         string            `gorm:"column:notes" json:"notes,omitempty"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }
