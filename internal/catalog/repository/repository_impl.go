package repository

import (
	"context"

	"github.com/smallbiznis/bellora/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListServices(ctx context.Context, db *gorm.DB) ([]*domain.SalonService, error) {
	var services []*domain.SalonService
	err := db.WithContext(ctx).
		Preload("Items").
		Order("name asc").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.SalonService, error) {
	var service domain.SalonService
	err := db.WithContext(ctx).
		Preload("Items").
		Where("slug = ?", slug).
		First(&service).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *repo) InsertService(ctx context.Context, db *gorm.DB, service *domain.SalonService) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *repo) CountServices(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.SalonService{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
