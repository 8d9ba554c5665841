// Package seed bootstraps the minimum data a fresh install needs: the
// admin account and the salon catalog.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	admindomain "github.com/smallbiznis/bellora/internal/admin/domain"
	"github.com/smallbiznis/bellora/internal/auth/password"
	catalogdomain "github.com/smallbiznis/bellora/internal/catalog/domain"
	"github.com/smallbiznis/bellora/internal/config"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	"gorm.io/gorm"
)

// EnsureAdmin creates the configured admin account and its marker row if
// they do not exist. Re-running is a no-op.
func EnsureAdmin(db *gorm.DB, cfg config.Config, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user userdomain.User
		err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hashed, err := password.Hash(cfg.AdminPassword)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			user = userdomain.User{
				ID:           node.Generate(),
				Name:         "Salon Admin",
				Email:        email,
				MobileNumber: cfg.AdminMobile,
				PasswordHash: &hashed,
				ReferralCode: uuid.NewString(),
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
				return err
			}
		}

		var count int64
		if err := tx.WithContext(ctx).
			Model(&admindomain.Admin{}).
			Where("user_id = ?", user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.WithContext(ctx).Create(&admindomain.Admin{
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
		}).Error
	})
}

// EnsureCatalog prepopulates the salon service list on first start.
func EnsureCatalog(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&catalogdomain.SalonService{}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, entry := range defaultCatalog() {
			service := catalogdomain.SalonService{
				ID:        node.Generate(),
				Name:      entry.name,
				Slug:      slug.Make(entry.name),
				CreatedAt: now,
			}
			for _, item := range entry.items {
				service.Items = append(service.Items, catalogdomain.ServiceItem{
					ID:         node.Generate(),
					Name:       item.name,
					PriceRange: item.price,
					CreatedAt:  now,
				})
			}
			if err := tx.WithContext(ctx).Create(&service).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type catalogItem struct {
	name  string
	price string
}

type catalogEntry struct {
	name  string
	items []catalogItem
}

func defaultCatalog() []catalogEntry {
	return []catalogEntry{
		{
			name: "Threading",
			items: []catalogItem{
				{name: "Eyebrow", price: "100"},
				{name: "Upper Lip", price: "60 - 70"},
				{name: "Forehead", price: "60 - 70"},
				{name: "Chin", price: "60 - 70"},
			},
		},
		{
			name: "Haircut",
			items: []catalogItem{
				{name: "Straight Cut", price: "300 - 400"},
				{name: "Layer Cut", price: "500 - 700"},
				{name: "Step Cut", price: "500 - 700"},
				{name: "Baby Cut", price: "200 - 300"},
			},
		},
		{
			name: "Facial",
			items: []catalogItem{
				{name: "Fruit Facial", price: "800 - 1000"},
				{name: "Gold Facial", price: "1500 - 2000"},
				{name: "Clean Up", price: "500 - 700"},
			},
		},
		{
			name: "Waxing",
			items: []catalogItem{
				{name: "Full Arms", price: "300 - 400"},
				{name: "Full Legs", price: "400 - 500"},
				{name: "Underarms", price: "100 - 150"},
			},
		},
		{
			name: "Hair Spa",
			items: []catalogItem{
				{name: "Basic Spa", price: "900 - 1000"},
				{name: "Keratin Spa", price: "2000 - 2500"},
			},
		},
	}
}
