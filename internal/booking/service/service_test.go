package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bellora/internal/booking/domain"
	"github.com/smallbiznis/bellora/internal/booking/repository"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/notify"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	userrepository "github.com/smallbiznis/bellora/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testLoyaltyConfig mirrors the defaults but retries harder, since the
// in-memory store serializes writers more coarsely than postgres.
func testLoyaltyConfig() config.LoyaltyConfig {
	cfg := config.DefaultLoyaltyConfig()
	cfg.TxRetryAttempts = 50
	return cfg
}

type fixture struct {
	svc domain.Service
	db  *gorm.DB
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:booking_service?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&userdomain.User{}, &domain.Booking{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM bookings")
		db.Exec("DELETE FROM users")
	})

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)),
		Repo:     repository.Provide(),
		Users:    userrepository.Provide(),
		Loyalty:  config.NewStaticLoyaltyHolder(testLoyaltyConfig()),
		Notifier: notify.NewLogNotifier(zap.NewNop()),
	})
	return fixture{svc: svc, db: db}
}

func (f fixture) seedUser(t *testing.T, id snowflake.ID, points int64) {
	t.Helper()
	assert.NoError(t, f.db.Create(&userdomain.User{
		ID:           id,
		Name:         "Priya",
		Email:        id.String() + "@example.com",
		MobileNumber: "98" + id.String(),
		Points:       points,
		ReferralCode: "ref-" + id.String(),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}).Error)
}

func (f fixture) seedBooking(t *testing.T, userID snowflake.ID, priceLabel string, status domain.Status) domain.Booking {
	t.Helper()
	id := snowflake.ID(time.Now().UnixNano())
	booking := domain.Booking{
		ID:          id,
		BookingID:   "bk-" + id.String(),
		UserID:      userID,
		ServiceName: "Haircut",
		PriceLabel:  priceLabel,
		BookingDate: "2024-06-02",
		TimeSlot:    "10:00 AM",
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	assert.NoError(t, f.db.Create(&booking).Error)
	return booking
}

func (f fixture) points(t *testing.T, id snowflake.ID) int64 {
	t.Helper()
	var user userdomain.User
	assert.NoError(t, f.db.First(&user, "id = ?", id).Error)
	return user.Points
}

func admin() userdomain.Actor { return userdomain.Actor{UserID: "1", Admin: true} }

func TestCompleteRedeemsPoints(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(100)
	f.seedUser(t, userID, 600)
	booking := f.seedBooking(t, userID, "1000", domain.StatusBooked)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "completed",
		Actor:     admin(),
	})
	assert.NoError(t, err)
	assert.True(t, result.PointsApplied)
	assert.Equal(t, domain.StatusCompleted, result.Booking.Status)
	assert.NotNil(t, result.Booking.FinalPrice)
	assert.Equal(t, int64(900), *result.Booking.FinalPrice)
	assert.NotNil(t, result.Booking.PointsUsed)
	assert.Equal(t, int64(100), *result.Booking.PointsUsed)
	assert.Equal(t, domain.PaymentStatusPaid, result.Booking.PaymentStatus)
	assert.Equal(t, int64(500), f.points(t, userID))
}

func TestCompleteBelowThresholdKeepsFullPrice(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(101)
	f.seedUser(t, userID, 200)
	booking := f.seedBooking(t, userID, "1000", domain.StatusBooked)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "completed",
		Actor:     admin(),
	})
	assert.NoError(t, err)
	assert.False(t, result.PointsApplied)
	assert.Equal(t, domain.StatusCompleted, result.Booking.Status)
	assert.Nil(t, result.Booking.FinalPrice)
	assert.Nil(t, result.Booking.PointsUsed)
	assert.Equal(t, int64(200), f.points(t, userID))
}

func TestCompleteDiscountNeverExceedsBalance(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(102)
	// Above the redemption threshold but below the would-be discount.
	f.seedUser(t, userID, 600)
	booking := f.seedBooking(t, userID, "10000", domain.StatusBooked)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "completed",
		Actor:     admin(),
	})
	assert.NoError(t, err)
	assert.False(t, result.PointsApplied)
	assert.Equal(t, int64(600), f.points(t, userID))
}

func TestCompleteUsesFirstNumberOfRangeLabel(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(103)
	f.seedUser(t, userID, 600)
	booking := f.seedBooking(t, userID, "900 - 1000", domain.StatusBooked)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "completed",
		Actor:     admin(),
	})
	assert.NoError(t, err)
	assert.True(t, result.PointsApplied)
	assert.Equal(t, int64(810), *result.Booking.FinalPrice)
	assert.Equal(t, int64(90), *result.Booking.PointsUsed)
	assert.Equal(t, int64(510), f.points(t, userID))
}

func TestCompleteTwiceDeductsOnce(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(104)
	f.seedUser(t, userID, 600)
	booking := f.seedBooking(t, userID, "1000", domain.StatusBooked)

	req := domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "completed",
		Actor:     admin(),
	}
	first, err := f.svc.Transition(context.Background(), req)
	assert.NoError(t, err)
	assert.True(t, first.PointsApplied)

	second, err := f.svc.Transition(context.Background(), req)
	assert.NoError(t, err)
	assert.False(t, second.PointsApplied)
	assert.Equal(t, domain.StatusCompleted, second.Booking.Status)
	assert.Equal(t, int64(100), *second.Booking.PointsUsed)
	assert.Equal(t, int64(500), f.points(t, userID))
}

func TestConcurrentCompletionDeductsOnce(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(105)
	f.seedUser(t, userID, 600)
	booking := f.seedBooking(t, userID, "1000", domain.StatusBooked)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
				BookingID: booking.BookingID,
				Status:    "completed",
				Actor:     admin(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, int64(500), f.points(t, userID))
	var stored domain.Booking
	assert.NoError(t, f.db.First(&stored, "booking_id = ?", booking.BookingID).Error)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, int64(100), *stored.PointsUsed)
}

func TestCompleteRequiresAdmin(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(106)
	f.seedUser(t, userID, 600)
	booking := f.seedBooking(t, userID, "1000", domain.StatusBooked)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "completed",
		Actor:     userdomain.Actor{UserID: userID.String(), Admin: false},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(600), f.points(t, userID))
}

func TestCancelByOwner(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(107)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "500", domain.StatusBooked)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "cancelled",
		Actor:     userdomain.Actor{UserID: userID.String(), Admin: false},
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Booking.Status)
	assert.False(t, result.PointsApplied)
}

func TestCancelByStrangerForbidden(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(108)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "500", domain.StatusBooked)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "cancelled",
		Actor:     userdomain.Actor{UserID: "999", Admin: false},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSameStatusReplayByStrangerForbidden(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(113)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "500", domain.StatusBooked)

	// The replay no-op answers with the booking document, so a stranger
	// asking for the current status must not get it.
	for _, status := range []string{"booked", "cancelled", "completed"} {
		result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
			BookingID: booking.BookingID,
			Status:    status,
			Actor:     userdomain.Actor{UserID: "999", Admin: false},
		})
		assert.ErrorIs(t, err, domain.ErrForbidden, "status %s", status)
		assert.Empty(t, result.Booking.UserID, "status %s", status)
	}
}

func TestSameStatusReplayByOwnerIsNoop(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(114)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "500", domain.StatusCancelled)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "cancelled",
		Actor:     userdomain.Actor{UserID: userID.String(), Admin: false},
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Booking.Status)
	assert.False(t, result.PointsApplied)
}

func TestAdminRevertsCancellation(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(109)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "500", domain.StatusCancelled)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "booked",
		Actor:     userdomain.Actor{UserID: userID.String(), Admin: false},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	result, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "booked",
		Actor:     admin(),
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, result.Booking.Status)
}

func TestCompletedIsTerminalForCancellation(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(110)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "500", domain.StatusCompleted)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "cancelled",
		Actor:     admin(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestTransitionUnknownBooking(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: "missing",
		Status:    "cancelled",
		Actor:     admin(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: "whatever",
		Status:    "archived",
		Actor:     admin(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCreateBooking(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(111)
	f.seedUser(t, userID, 0)

	booking, err := f.svc.Create(context.Background(), domain.CreateBookingRequest{
		ServiceName: "Threading",
		PriceLabel:  "100",
		BookingDate: "2024-06-03",
		TimeSlot:    "11:00 AM",
		Actor:       userdomain.Actor{UserID: userID.String()},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, booking.BookingID)
	assert.Equal(t, domain.StatusBooked, booking.Status)
	assert.Equal(t, userID, booking.UserID)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(112)
	f.seedUser(t, userID, 0)

	req := domain.CreateBookingRequest{
		ServiceName: "Haircut",
		PriceLabel:  "300 - 400",
		BookingDate: "2024-06-04",
		TimeSlot:    "2:00 PM",
		Actor:       userdomain.Actor{UserID: userID.String()},
	}
	_, err := f.svc.Create(context.Background(), req)
	assert.NoError(t, err)

	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrSlotTaken)
}

func TestCancelledSlotFreesUp(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(113)
	f.seedUser(t, userID, 0)

	req := domain.CreateBookingRequest{
		ServiceName: "Facial",
		PriceLabel:  "800",
		BookingDate: "2024-06-05",
		TimeSlot:    "3:00 PM",
		Actor:       userdomain.Actor{UserID: userID.String()},
	}
	booking, err := f.svc.Create(context.Background(), req)
	assert.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), domain.TransitionRequest{
		BookingID: booking.BookingID,
		Status:    "cancelled",
		Actor:     userdomain.Actor{UserID: userID.String()},
	})
	assert.NoError(t, err)

	_, err = f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestListScopedToOwner(t *testing.T) {
	f := setup(t)
	alice := snowflake.ID(114)
	bob := snowflake.ID(115)
	f.seedUser(t, alice, 0)
	f.seedUser(t, bob, 0)
	f.seedBooking(t, alice, "100", domain.StatusBooked)
	time.Sleep(2 * time.Millisecond)
	f.seedBooking(t, bob, "100", domain.StatusBooked)

	resp, err := f.svc.List(context.Background(), domain.ListBookingsRequest{
		Actor: userdomain.Actor{UserID: alice.String(), Admin: false},
		// Asking for someone else's bookings is ignored for non-admins.
		UserID: bob.String(),
	})
	assert.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, alice, resp.Bookings[0].UserID)

	all, err := f.svc.List(context.Background(), domain.ListBookingsRequest{Actor: admin()})
	assert.NoError(t, err)
	assert.Len(t, all.Bookings, 2)
}

func TestGetByBookingIDOwnership(t *testing.T) {
	f := setup(t)
	userID := snowflake.ID(116)
	f.seedUser(t, userID, 0)
	booking := f.seedBooking(t, userID, "100", domain.StatusBooked)

	got, err := f.svc.GetByBookingID(context.Background(), domain.GetBookingRequest{
		BookingID: booking.BookingID,
		Actor:     userdomain.Actor{UserID: userID.String()},
	})
	assert.NoError(t, err)
	assert.Equal(t, booking.BookingID, got.BookingID)

	_, err = f.svc.GetByBookingID(context.Background(), domain.GetBookingRequest{
		BookingID: booking.BookingID,
		Actor:     userdomain.Actor{UserID: "999"},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
