package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LoyaltyConfig holds the tunable parameters of the points program.
// Amounts are whole points; DiscountPercent is applied to the parsed
// service price when a booking completes.
type LoyaltyConfig struct {
	MinRedeemPoints int64 `mapstructure:"minRedeemPoints"`
	DiscountPercent int64 `mapstructure:"discountPercent"`
	ReferralBonus   int64 `mapstructure:"referralBonus"`
	SignupBonus     int64 `mapstructure:"signupBonus"`
	SlotLockSeconds int64 `mapstructure:"slotLockSeconds"`
	TxRetryAttempts int   `mapstructure:"txRetryAttempts"`
}

func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{
		MinRedeemPoints: 500,
		DiscountPercent: 10,
		ReferralBonus:   200,
		SignupBonus:     100,
		SlotLockSeconds: 30,
		TxRetryAttempts: 5,
	}
}

// LoyaltyHolder exposes the current loyalty configuration and hot-reloads
// it when the backing file changes.
type LoyaltyHolder struct {
	current atomic.Value // holds LoyaltyConfig
}

func NewLoyaltyHolder() (*LoyaltyHolder, error) {
	v := viper.New()

	v.SetConfigName("loyalty")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/bellora/config") // Volume-mounted config
	v.AddConfigPath("/etc/bellora")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("BELLORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLoyaltyConfig()
	v.SetDefault("loyalty.minRedeemPoints", defaults.MinRedeemPoints)
	v.SetDefault("loyalty.discountPercent", defaults.DiscountPercent)
	v.SetDefault("loyalty.referralBonus", defaults.ReferralBonus)
	v.SetDefault("loyalty.signupBonus", defaults.SignupBonus)
	v.SetDefault("loyalty.slotLockSeconds", defaults.SlotLockSeconds)
	v.SetDefault("loyalty.txRetryAttempts", defaults.TxRetryAttempts)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg LoyaltyConfig
	if err := v.UnmarshalKey("loyalty", &cfg); err != nil {
		return nil, err
	}
	if err := validateLoyaltyConfig(cfg); err != nil {
		return nil, err
	}

	holder := &LoyaltyHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated LoyaltyConfig
		if err := v.UnmarshalKey("loyalty", &updated); err != nil {
			log.Printf("[loyalty-config] reload failed: %v", err)
			return
		}
		if err := validateLoyaltyConfig(updated); err != nil {
			log.Printf("[loyalty-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[loyalty-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticLoyaltyHolder wraps a fixed configuration, used by tests.
func NewStaticLoyaltyHolder(cfg LoyaltyConfig) *LoyaltyHolder {
	holder := &LoyaltyHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *LoyaltyHolder) Get() LoyaltyConfig {
	return h.current.Load().(LoyaltyConfig)
}

func validateLoyaltyConfig(cfg LoyaltyConfig) error {
	if cfg.DiscountPercent < 0 || cfg.DiscountPercent > 100 {
		return errors.New("loyalty.discountPercent must be between 0 and 100")
	}
	if cfg.MinRedeemPoints < 0 {
		return errors.New("loyalty.minRedeemPoints cannot be negative")
	}
	if cfg.ReferralBonus < 0 || cfg.SignupBonus < 0 {
		return errors.New("loyalty bonus amounts cannot be negative")
	}
	if cfg.TxRetryAttempts < 1 {
		return errors.New("loyalty.txRetryAttempts must be at least 1")
	}
	return nil
}
