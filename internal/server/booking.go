package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/bellora/internal/booking/domain"
)

type CreateBookingRequest struct {
	ServiceName string `json:"service_name"`
	SubItemName string `json:"sub_item_name"`
	PriceLabel  string `json:"price_label"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
	Notes       string `json:"notes"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	booking, err := s.bookingsvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		ServiceName: req.ServiceName,
		SubItemName: req.SubItemName,
		PriceLabel:  req.PriceLabel,
		BookingDate: req.BookingDate,
		TimeSlot:    req.TimeSlot,
		Notes:       req.Notes,
		Actor:       s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

type listBookingsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int32  `form:"page_size"`
	Status    string `form:"status"`
	UserID    string `form:"user_id"`
}

func (s *Server) ListBookings(c *gin.Context) {
	var query listBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingsvc.List(c.Request.Context(), bookingdomain.ListBookingsRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    query.Status,
		UserID:    query.UserID,
		Actor:     s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetBooking(c *gin.Context) {
	booking, err := s.bookingsvc.GetByBookingID(c.Request.Context(), bookingdomain.GetBookingRequest{
		BookingID: c.Param("bookingId"),
		Actor:     s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type TransitionBookingRequest struct {
	Status string `json:"status"`
}

func (s *Server) TransitionBooking(c *gin.Context) {
	var req TransitionBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.bookingsvc.Transition(c.Request.Context(), bookingdomain.TransitionRequest{
		BookingID: c.Param("bookingId"),
		Status:    req.Status,
		Actor:     s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelBooking is the customer-facing shorthand for the cancelled
// transition; ownership rules are enforced by the service.
func (s *Server) CancelBooking(c *gin.Context) {
	result, err := s.bookingsvc.Transition(c.Request.Context(), bookingdomain.TransitionRequest{
		BookingID: c.Param("bookingId"),
		Status:    string(bookingdomain.StatusCancelled),
		Actor:     s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
