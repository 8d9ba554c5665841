package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Admin marks a user as an administrator. Privilege is the existence of
// the row, checked fresh on every privileged operation; deleting the row
// revokes access immediately.
type Admin struct {
	UserID    snowflake.ID  `gorm:"primaryKey;column:user_id" json:"user_id"`
	GrantedBy *snowflake.ID `gorm:"column:granted_by" json:"granted_by,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Admin) TableName() string { return "admins" }

// Gate answers whether a user currently holds admin privilege. A lookup
// failure of any kind answers false.
type Gate interface {
	IsAdmin(ctx context.Context, userID snowflake.ID) bool
}

type Repository interface {
	Exists(ctx context.Context, db *gorm.DB, userID snowflake.ID) (bool, error)
	Insert(ctx context.Context, db *gorm.DB, admin *Admin) error
}
