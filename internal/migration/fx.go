package migration

import (
	"github.com/bwmarrin/snowflake"
	admindomain "github.com/smallbiznis/bellora/internal/admin/domain"
	authdomain "github.com/smallbiznis/bellora/internal/auth/domain"
	bookingdomain "github.com/smallbiznis/bellora/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/bellora/internal/catalog/domain"
	"github.com/smallbiznis/bellora/internal/config"
	referraldomain "github.com/smallbiznis/bellora/internal/referral/domain"
	"github.com/smallbiznis/bellora/internal/seed"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres stores (local sqlite) get the schema straight
			// from the models.
			if err := conn.AutoMigrate(
				&userdomain.User{},
				&bookingdomain.Booking{},
				&referraldomain.ReferralRecord{},
				&admindomain.Admin{},
				&authdomain.Session{},
				&catalogdomain.SalonService{},
				&catalogdomain.ServiceItem{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureAdmin(conn, cfg, node); err != nil {
			return err
		}
		return seed.EnsureCatalog(conn, node)
	}),
)
