package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	bookingsCreated   prometheus.Counter
	bookingsCompleted prometheus.Counter
	bookingsCancelled prometheus.Counter
	pointsRedeemed    prometheus.Counter
	referralAwards    prometheus.Counter
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		bookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bellora_bookings_created_total",
			Help: "Bookings created.",
		}),
		bookingsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bellora_bookings_completed_total",
			Help: "Bookings marked completed.",
		}),
		bookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bellora_bookings_cancelled_total",
			Help: "Bookings cancelled.",
		}),
		pointsRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bellora_points_redeemed_total",
			Help: "Loyalty points redeemed against completed bookings.",
		}),
		referralAwards: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bellora_referral_bonus_awarded_total",
			Help: "Referral bonuses credited to referrers.",
		}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bellora_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bellora_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) RecordBookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) RecordBookingCompleted() {
	if m == nil {
		return
	}
	m.bookingsCompleted.Inc()
}

func (m *Metrics) RecordBookingCancelled() {
	if m == nil {
		return
	}
	m.bookingsCancelled.Inc()
}

func (m *Metrics) RecordPointsRedeemed(points int64) {
	if m == nil {
		return
	}
	m.pointsRedeemed.Add(float64(points))
}

func (m *Metrics) RecordReferralAward() {
	if m == nil {
		return
	}
	m.referralAwards.Inc()
}

// HTTPMiddleware records request counts and latency per route template.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Provide(New)
