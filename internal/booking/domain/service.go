package domain

import (
	"context"
	"errors"

	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
)

type CreateBookingRequest struct {
	ServiceName string `json:"service_name" binding:"required"`
	SubItemName string `json:"sub_item_name"`
	PriceLabel  string `json:"price_label" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	Notes       string `json:"notes"`
	Actor       userdomain.Actor
}

type ListBookingsRequest struct {
	PageToken string
	PageSize  int32
	Status    string
	Actor     userdomain.Actor
	// UserID narrows the listing; non-admin actors are always narrowed to
	// themselves regardless of what they ask for.
	UserID string
}

type ListBookingsResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

type GetBookingRequest struct {
	BookingID string
	Actor     userdomain.Actor
}

// TransitionRequest asks for a lifecycle move. Status is the target state;
// the allowed moves depend on the current state and the actor.
type TransitionRequest struct {
	BookingID string
	Status    string
	Actor     userdomain.Actor
}

// TransitionResult reports what the move did to the booking and, on
// completion, to the customer's balance.
type TransitionResult struct {
	Booking       Booking `json:"booking"`
	PointsApplied bool    `json:"points_applied"`
}

type Service interface {
	Create(context.Context, CreateBookingRequest) (Booking, error)
	List(context.Context, ListBookingsRequest) (ListBookingsResponse, error)
	GetByBookingID(context.Context, GetBookingRequest) (Booking, error)
	Transition(context.Context, TransitionRequest) (TransitionResult, error)
}

var (
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrSlotTaken         = errors.New("slot_taken")
	ErrConflictExhausted = errors.New("conflict_exhausted")
)
