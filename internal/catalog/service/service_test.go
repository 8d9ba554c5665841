package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bellora/internal/catalog/domain"
	"github.com/smallbiznis/bellora/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:catalog_service?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.SalonService{}, &domain.ServiceItem{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM service_items")
		db.Exec("DELETE FROM services")
	})

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, db
}

func seedService(t *testing.T, db *gorm.DB, id snowflake.ID, name, slug string, items ...domain.ServiceItem) {
	t.Helper()
	for i := range items {
		items[i].ID = snowflake.ID(int64(id)*100 + int64(i))
		items[i].ServiceID = id
	}
	assert.NoError(t, db.Create(&domain.SalonService{
		ID:    id,
		Name:  name,
		Slug:  slug,
		Items: items,
	}).Error)
}

func TestListServicesOrderedByName(t *testing.T) {
	svc, db := setupService(t)
	seedService(t, db, snowflake.ID(2), "Threading", "threading",
		domain.ServiceItem{Name: "Eyebrow", PriceRange: "100"})
	seedService(t, db, snowflake.ID(1), "Haircut", "haircut",
		domain.ServiceItem{Name: "Straight Cut", PriceRange: "300 - 400"})

	services, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, services, 2)
	assert.Equal(t, "Haircut", services[0].Name)
	assert.Equal(t, "Threading", services[1].Name)
	assert.Len(t, services[0].Items, 1)
	assert.Equal(t, "300 - 400", services[0].Items[0].PriceRange)
}

func TestGetBySlug(t *testing.T) {
	svc, db := setupService(t)
	seedService(t, db, snowflake.ID(3), "Facial", "facial",
		domain.ServiceItem{Name: "Gold Facial", PriceRange: "800"})

	service, err := svc.GetBySlug(context.Background(), "facial")
	assert.NoError(t, err)
	assert.Equal(t, "Facial", service.Name)
	assert.Len(t, service.Items, 1)

	_, err = svc.GetBySlug(context.Background(), "massage")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEstimateTotalsCart(t *testing.T) {
	svc, _ := setupService(t)

	// Midpoints for ranges, exact amounts otherwise: 350 + 100 + 65.
	resp, err := svc.Estimate(context.Background(), domain.EstimateRequest{
		PriceLabels: []string{"300 - 400", "₹100", "60 to 70"},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(515), resp.Total)
}

func TestEstimateEmptyCart(t *testing.T) {
	svc, _ := setupService(t)

	resp, err := svc.Estimate(context.Background(), domain.EstimateRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
}
