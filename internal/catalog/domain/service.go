package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	ListServices(ctx context.Context, db *gorm.DB) ([]*SalonService, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*SalonService, error)
	InsertService(ctx context.Context, db *gorm.DB, service *SalonService) error
	CountServices(ctx context.Context, db *gorm.DB) (int64, error)
}

type EstimateRequest struct {
	// PriceLabels are the price texts of the items in the customer's cart.
	PriceLabels []string `json:"price_labels" binding:"required"`
}

type EstimateResponse struct {
	Total int64 `json:"total"`
}

type Service interface {
	List(ctx context.Context) ([]SalonService, error)
	GetBySlug(ctx context.Context, slug string) (SalonService, error)
	Estimate(ctx context.Context, req EstimateRequest) (EstimateResponse, error)
}

var ErrNotFound = errors.New("not_found")
