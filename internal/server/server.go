package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/bellora/internal/admin"
	admindomain "github.com/smallbiznis/bellora/internal/admin/domain"
	"github.com/smallbiznis/bellora/internal/auth"
	authdomain "github.com/smallbiznis/bellora/internal/auth/domain"
	"github.com/smallbiznis/bellora/internal/auth/session"
	"github.com/smallbiznis/bellora/internal/booking"
	bookingdomain "github.com/smallbiznis/bellora/internal/booking/domain"
	"github.com/smallbiznis/bellora/internal/catalog"
	catalogdomain "github.com/smallbiznis/bellora/internal/catalog/domain"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/notify"
	"github.com/smallbiznis/bellora/internal/observability"
	"github.com/smallbiznis/bellora/internal/providers/pdf"
	"github.com/smallbiznis/bellora/internal/referral"
	referraldomain "github.com/smallbiznis/bellora/internal/referral/domain"
	"github.com/smallbiznis/bellora/internal/signup"
	signupdomain "github.com/smallbiznis/bellora/internal/signup/domain"
	"github.com/smallbiznis/bellora/internal/slotlock"
	"github.com/smallbiznis/bellora/internal/user"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	notify.Module,
	slotlock.Module,
	admin.Module,
	auth.Module,
	user.Module,
	booking.Module,
	referral.Module,
	catalog.Module,
	signup.Module,
	pdf.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(metrics *observability.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.HTTPMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(metrics *observability.Metrics) *gin.Engine {
	return NewEngine(metrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	sessions    *session.Manager
	gate        admindomain.Gate
	authsvc     authdomain.Service
	signupsvc   signupdomain.Service
	usersvc     userdomain.Service
	bookingsvc  bookingdomain.Service
	referralsvc referraldomain.Service
	catalogsvc  catalogdomain.Service
	pdfProvider pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	Sessions    *session.Manager
	Gate        admindomain.Gate
	Authsvc     authdomain.Service
	Signupsvc   signupdomain.Service
	Usersvc     userdomain.Service
	Bookingsvc  bookingdomain.Service
	Referralsvc referraldomain.Service
	Catalogsvc  catalogdomain.Service
	PDFProvider pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		sessions:    p.Sessions,
		gate:        p.Gate,
		authsvc:     p.Authsvc,
		signupsvc:   p.Signupsvc,
		usersvc:     p.Usersvc,
		bookingsvc:  p.Bookingsvc,
		referralsvc: p.Referralsvc,
		catalogsvc:  p.Catalogsvc,
		pdfProvider: p.PDFProvider,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Catalog --------
	api.GET("/services", s.ListServices)
	api.GET("/services/:slug", s.GetServiceBySlug)
	api.POST("/cart/estimate", s.EstimateCart)

	// -------- Bookings --------
	api.POST("/bookings", s.AuthRequired(), s.CreateBooking)
	api.GET("/bookings", s.AuthRequired(), s.ListBookings)
	api.GET("/bookings/:bookingId", s.AuthRequired(), s.GetBooking)
	api.POST("/bookings/:bookingId/status", s.AuthRequired(), s.TransitionBooking)
	api.POST("/bookings/:bookingId/cancel", s.AuthRequired(), s.CancelBooking)
	api.GET("/bookings/:bookingId/receipt", s.AuthRequired(), s.BookingReceipt)

	// -------- Referrals --------
	api.GET("/referrals", s.AuthRequired(), s.MyReferrals)
}

func (s *Server) registerAdminRoutes() {
	adm := s.engine.Group("/admin", s.AuthRequired(), s.AdminRequired())

	adm.GET("/users", s.ListUsers)
	adm.GET("/users/:id", s.GetUser)
	adm.POST("/users/:id/points", s.AdjustPoints)
	adm.POST("/bookings/:bookingId/status", s.TransitionBooking)
}
