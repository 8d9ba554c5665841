package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User is a salon customer (or staff) profile. Points are mutated only by
// the booking lifecycle (deduction), the referral engine (addition) and
// explicit admin adjustments; all three go through guarded transactional
// updates so the balance can never go negative.
type User struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"not null" json:"name"`
	Email        string            `gorm:"not null;uniqueIndex" json:"email"`
	MobileNumber string            `gorm:"column:mobile_number;not null;uniqueIndex" json:"mobile_number"`
	PasswordHash *string           `gorm:"type:text" json:"-"`
	Points       int64             `gorm:"not null;default:0" json:"points"`
	ReferralCode string            `gorm:"column:referral_code;not null;uniqueIndex" json:"referral_code"`
	ReferredBy   *string           `gorm:"column:referred_by" json:"referred_by,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
