package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
)

type Request struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	MobileNumber string `json:"mobile_number" binding:"required"`
	Password     string `json:"password" binding:"required"`
	ReferralCode string `json:"referral_code"`
	UserAgent    string `json:"-"`
	IPAddress    string `json:"-"`
}

type Result struct {
	User      userdomain.User `json:"user"`
	RawToken  string          `json:"-"`
	ExpiresAt time.Time       `json:"-"`
	SessionID snowflake.ID    `json:"-"`
}

type Service interface {
	Signup(ctx context.Context, req Request) (*Result, error)
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUserExists     = errors.New("user_exists")
)
