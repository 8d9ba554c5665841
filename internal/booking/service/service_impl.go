package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/bellora/internal/booking/domain"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/notify"
	"github.com/smallbiznis/bellora/internal/observability"
	"github.com/smallbiznis/bellora/internal/pricetext"
	"github.com/smallbiznis/bellora/internal/slotlock"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"github.com/smallbiznis/bellora/pkg/db"
	"github.com/smallbiznis/bellora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Users    userdomain.Repository
	Loyalty  *config.LoyaltyHolder
	Locker   *slotlock.Locker `optional:"true"`
	Notifier notify.Notifier
	Metrics  *observability.Metrics `optional:"true"`
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	users    userdomain.Repository
	loyalty  *config.LoyaltyHolder
	locker   *slotlock.Locker
	notifier notify.Notifier
	metrics  *observability.Metrics
}

func New(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("booking.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		users:    p.Users,
		loyalty:  p.Loyalty,
		locker:   p.Locker,
		notifier: p.Notifier,
		metrics:  p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	if req.ServiceName == "" || req.BookingDate == "" || req.TimeSlot == "" {
		return domain.Booking{}, domain.ErrInvalidRequest
	}
	userID, err := snowflake.ParseString(req.Actor.UserID)
	if err != nil {
		return domain.Booking{}, domain.ErrForbidden
	}

	cfg := s.loyalty.Get()

	// The distributed lock narrows the check-then-insert window across
	// instances; the transactional slot count below is the actual guard.
	if s.locker != nil {
		key := slotlock.SlotKey(req.BookingDate, req.TimeSlot)
		token, ok, err := s.locker.TryLock(ctx, key, time.Duration(cfg.SlotLockSeconds)*time.Second)
		if err != nil {
			s.log.Warn("slot lock unavailable, falling back to store check", zap.Error(err))
		} else if !ok {
			return domain.Booking{}, domain.ErrSlotTaken
		} else {
			defer func() {
				if err := s.locker.Release(ctx, key, token); err != nil {
					s.log.Warn("slot lock release failed", zap.String("key", key), zap.Error(err))
				}
			}()
		}
	}

	now := s.clock.Now()
	booking := &domain.Booking{
		ID:            s.genID.Generate(),
		BookingID:     ulid.Make().String(),
		UserID:        userID,
		ServiceName:   req.ServiceName,
		SubItemName:   req.SubItemName,
		PriceLabel:    req.PriceLabel,
		BookingDate:   req.BookingDate,
		TimeSlot:      req.TimeSlot,
		Status:        domain.StatusBooked,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = db.RunInTxRetry(ctx, s.db, cfg.TxRetryAttempts, func(tx *gorm.DB) error {
		taken, err := s.repo.CountActiveAt(ctx, tx, req.BookingDate, req.TimeSlot)
		if err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrSlotTaken
		}
		return s.repo.Insert(ctx, tx, booking)
	})
	if err != nil {
		if errors.Is(err, db.ErrRetryExhausted) {
			return domain.Booking{}, domain.ErrConflictExhausted
		}
		return domain.Booking{}, err
	}

	s.metrics.RecordBookingCreated()
	s.notifier.BookingConfirmed(ctx, notify.BookingNotification{
		BookingID:   booking.BookingID,
		UserID:      booking.UserID.String(),
		ServiceName: booking.ServiceName,
		BookingDate: booking.BookingDate,
		TimeSlot:    booking.TimeSlot,
	})

	s.log.Info("booking created",
		zap.String("booking_id", booking.BookingID),
		zap.String("user_id", booking.UserID.String()),
		zap.String("booking_date", booking.BookingDate),
		zap.String("time_slot", booking.TimeSlot),
	)
	return *booking, nil
}

func (s *service) List(ctx context.Context, req domain.ListBookingsRequest) (domain.ListBookingsResponse, error) {
	filter := domain.ListBookingFilter{}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return domain.ListBookingsResponse{}, err
		}
		filter.Status = status
	}

	// Customers only ever see their own bookings.
	scopeID := req.UserID
	if !req.Actor.Admin {
		scopeID = req.Actor.UserID
	}
	if scopeID != "" {
		id, err := snowflake.ParseString(scopeID)
		if err != nil {
			return domain.ListBookingsResponse{}, domain.ErrInvalidRequest
		}
		filter.UserID = id
	}

	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(req.PageSize),
	}
	if page.PageSize <= 0 {
		page.PageSize = 50
	}

	bookings, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListBookingsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(bookings, page.PageSize, func(b *domain.Booking) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        b.ID.String(),
			CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	if len(bookings) > page.PageSize {
		bookings = bookings[:page.PageSize]
	}
	resp := domain.ListBookingsResponse{PageInfo: *pageInfo}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *b)
	}
	return resp, nil
}

func (s *service) GetByBookingID(ctx context.Context, req domain.GetBookingRequest) (domain.Booking, error) {
	booking, err := s.repo.FindByBookingID(ctx, s.db, req.BookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	if !req.Actor.Admin && booking.UserID.String() != req.Actor.UserID {
		return domain.Booking{}, domain.ErrForbidden
	}
	return *booking, nil
}

// Transition moves a booking through its lifecycle. The whole move runs in
// one retried transaction: the status flip is a guarded update keyed on the
// current status, so a concurrently completed booking can never deduct
// points twice, and the completion discount debits the balance behind the
// same guard.
func (s *service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error) {
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		return domain.TransitionResult{}, err
	}

	cfg := s.loyalty.Get()
	var result domain.TransitionResult
	var transitioned bool

	err = db.RunInTxRetry(ctx, s.db, cfg.TxRetryAttempts, func(tx *gorm.DB) error {
		result = domain.TransitionResult{}
		transitioned = false

		booking, err := s.repo.FindByBookingID(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return domain.ErrNotFound
		}

		if err := authorize(booking, target, req.Actor); err != nil {
			return err
		}

		// Re-delivering the same transition is a success no-op. A completed
		// booking keeps its original discount outcome.
		if booking.Status == target {
			result.Booking = *booking
			return nil
		}

		flipped, err := s.repo.UpdateStatus(ctx, tx, booking.ID, booking.Status, target)
		if err != nil {
			return err
		}
		if !flipped {
			current, err := s.repo.FindByBookingID(ctx, tx, req.BookingID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}
			if current.Status == target {
				result.Booking = *current
				return nil
			}
			return domain.ErrInvalidStatus
		}
		transitioned = true

		if target == domain.StatusCompleted {
			applied, err := s.applyCompletionDiscount(ctx, tx, booking, cfg)
			if err != nil {
				return err
			}
			result.PointsApplied = applied
			if err := s.repo.SetPaymentStatus(ctx, tx, booking.ID, domain.PaymentStatusPaid); err != nil {
				return err
			}
		}

		final, err := s.repo.FindByBookingID(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if final == nil {
			return domain.ErrNotFound
		}
		result.Booking = *final
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrRetryExhausted) {
			return domain.TransitionResult{}, domain.ErrConflictExhausted
		}
		return domain.TransitionResult{}, err
	}

	if transitioned {
		switch target {
		case domain.StatusCompleted:
			s.metrics.RecordBookingCompleted()
			if result.PointsApplied && result.Booking.PointsUsed != nil {
				s.metrics.RecordPointsRedeemed(*result.Booking.PointsUsed)
			}
		case domain.StatusCancelled:
			s.metrics.RecordBookingCancelled()
			s.notifier.BookingCancelled(ctx, notify.BookingNotification{
				BookingID: result.Booking.BookingID,
				UserID:    result.Booking.UserID.String(),
			})
		}
		s.log.Info("booking transitioned",
			zap.String("booking_id", req.BookingID),
			zap.String("status", string(target)),
			zap.Bool("points_applied", result.PointsApplied),
		)
	}
	return result, nil
}

// applyCompletionDiscount redeems points against the parsed service price.
// The debit is guarded on the customer holding both the redemption
// threshold and the discount itself, so a balance can never go negative;
// when the guard does not match the booking completes at full price.
func (s *service) applyCompletionDiscount(ctx context.Context, tx *gorm.DB, booking *domain.Booking, cfg config.LoyaltyConfig) (bool, error) {
	price := pricetext.Amount(booking.PriceLabel)
	if price <= 0 {
		return false, nil
	}
	discount := price * cfg.DiscountPercent / 100
	if discount <= 0 {
		return false, nil
	}

	minPoints := cfg.MinRedeemPoints
	if discount > minPoints {
		minPoints = discount
	}
	deducted, err := s.users.DeductPoints(ctx, tx, booking.UserID, discount, minPoints)
	if err != nil {
		return false, err
	}
	if !deducted {
		return false, nil
	}

	if err := s.repo.ApplyDiscount(ctx, tx, booking.ID, price-discount, discount); err != nil {
		return false, err
	}
	return true, nil
}

func authorize(booking *domain.Booking, target domain.Status, actor userdomain.Actor) error {
	owner := booking.UserID.String() == actor.UserID

	switch {
	// Same-status replays are answered with the booking itself, so they
	// carry the same visibility rule as reading it.
	case booking.Status == target:
		if !owner && !actor.Admin {
			return domain.ErrForbidden
		}
	case booking.Status == domain.StatusBooked && target == domain.StatusCancelled:
		if !owner && !actor.Admin {
			return domain.ErrForbidden
		}
	case booking.Status == domain.StatusBooked && target == domain.StatusCompleted:
		if !actor.Admin {
			return domain.ErrForbidden
		}
	case booking.Status == domain.StatusCancelled && target == domain.StatusBooked:
		if !actor.Admin {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrInvalidStatus
	}
	return nil
}
