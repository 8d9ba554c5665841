package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListUserFilter struct {
	Email        string
	MobileNumber string
}

// Repository is the store boundary for user documents. Callers pass the
// connection (or transaction) the operation must run on; point mutations
// are guarded updates that report whether the guard matched.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByMobile(ctx context.Context, db *gorm.DB, mobile string) (*User, error)
	FindByReferralCode(ctx context.Context, db *gorm.DB, code string) (*User, error)
	List(ctx context.Context, db *gorm.DB, filter ListUserFilter, page pagination.Pagination) ([]*User, error)

	// AddPoints unconditionally credits points to the user.
	AddPoints(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) (bool, error)
	// DeductPoints debits points only when the balance at statement time is
	// at least minPoints; returns false when the guard did not match and
	// nothing was written.
	DeductPoints(ctx context.Context, db *gorm.DB, id snowflake.ID, amount, minPoints int64) (bool, error)
}
