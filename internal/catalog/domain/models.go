package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SalonService is a catalog category such as Haircut or Threading. Prices
// live on the items as free text exactly as the salon advertises them,
// including ranges like "300 - 400".
type SalonService struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null;uniqueIndex" json:"name"`
	Slug      string        `gorm:"not null;uniqueIndex" json:"slug"`
	Items     []ServiceItem `gorm:"foreignKey:ServiceID" json:"items"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SalonService) TableName() string { return "services" }

type ServiceItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ServiceID  snowflake.ID `gorm:"column:service_id;not null;index" json:"service_id"`
	Name       string       `gorm:"not null" json:"name"`
	PriceRange string       `gorm:"column:price_range;not null" json:"price_range"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ServiceItem) TableName() string { return "service_items" }
