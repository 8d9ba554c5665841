package notify

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Notifier delivers booking reminders to the customer. Delivery is best
// effort and never blocks or fails the booking itself.
type Notifier interface {
	BookingConfirmed(ctx context.Context, n BookingNotification)
	BookingCancelled(ctx context.Context, n BookingNotification)
}

type BookingNotification struct {
	BookingID   string
	UserID      string
	ServiceName string
	BookingDate string
	TimeSlot    string
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier emits reminders into the structured log stream. Push
// delivery plugs in behind the same interface.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.Named("notify")}
}

func (n *logNotifier) BookingConfirmed(ctx context.Context, event BookingNotification) {
	n.log.Info("booking alarm scheduled",
		zap.String("booking_id", event.BookingID),
		zap.String("user_id", event.UserID),
		zap.String("service_name", event.ServiceName),
		zap.String("booking_date", event.BookingDate),
		zap.String("time_slot", event.TimeSlot),
	)
}

func (n *logNotifier) BookingCancelled(ctx context.Context, event BookingNotification) {
	n.log.Info("booking alarm cleared",
		zap.String("booking_id", event.BookingID),
		zap.String("user_id", event.UserID),
	)
}

var Module = fx.Provide(NewLogNotifier)
