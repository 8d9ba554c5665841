package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/bellora/internal/booking/domain"
	"github.com/smallbiznis/bellora/internal/providers/pdf"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
)

// BookingReceipt renders a PDF receipt for a completed booking. Ownership
// is enforced by the booking lookup.
func (s *Server) BookingReceipt(c *gin.Context) {
	booking, err := s.bookingsvc.GetByBookingID(c.Request.Context(), bookingdomain.GetBookingRequest{
		BookingID: c.Param("bookingId"),
		Actor:     s.actor(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if booking.Status != bookingdomain.StatusCompleted {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	customer, err := s.usersvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{
		ID: booking.UserID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateReceipt(c.Request.Context(), pdf.ReceiptData{
		BookingID:    booking.BookingID,
		CustomerName: customer.Name,
		ServiceName:  booking.ServiceName,
		BookingDate:  booking.BookingDate,
		TimeSlot:     booking.TimeSlot,
		PriceLabel:   booking.PriceLabel,
		FinalPrice:   booking.FinalPrice,
		PointsUsed:   booking.PointsUsed,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+booking.BookingID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
