package service

import (
	"context"

	"github.com/smallbiznis/bellora/internal/catalog/domain"
	"github.com/smallbiznis/bellora/internal/pricetext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *service) List(ctx context.Context) ([]domain.SalonService, error) {
	services, err := s.repo.ListServices(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SalonService, 0, len(services))
	for _, svc := range services {
		out = append(out, *svc)
	}
	return out, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (domain.SalonService, error) {
	service, err := s.repo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return domain.SalonService{}, err
	}
	if service == nil {
		return domain.SalonService{}, domain.ErrNotFound
	}
	return *service, nil
}

// Estimate totals a cart of price labels, taking the midpoint of ranged
// prices. This is the number shown before checkout; the completion
// discount works off the exact label of the booked service instead.
func (s *service) Estimate(ctx context.Context, req domain.EstimateRequest) (domain.EstimateResponse, error) {
	return domain.EstimateResponse{Total: pricetext.EstimateTotal(req.PriceLabels)}, nil
}
