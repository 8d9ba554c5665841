package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/bellora/pkg/db/pagination"
)

type ListUsersRequest struct {
	PageToken    string
	PageSize     int32
	Email        string
	MobileNumber string
}

type ListUsersResponse struct {
	pagination.PageInfo
	Users []User `json:"users"`
}

type GetUserRequest struct {
	ID string
}

// AdjustPointsRequest is an admin-side manual correction of a balance.
// Delta may be negative; the balance is never allowed below zero.
type AdjustPointsRequest struct {
	UserID string
	Delta  int64
	Actor  Actor
}

// Actor identifies the caller of a points-touching operation. Admin is
// resolved fresh per operation by the admin gate, never cached.
type Actor struct {
	UserID string
	Admin  bool
}

type Service interface {
	GetByID(context.Context, GetUserRequest) (User, error)
	List(context.Context, ListUsersRequest) (ListUsersResponse, error)
	AdjustPoints(context.Context, AdjustPointsRequest) (User, error)
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidDelta       = errors.New("invalid_delta")
	ErrInsufficientPoints = errors.New("insufficient_points")
)
