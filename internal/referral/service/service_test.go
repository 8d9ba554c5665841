package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/referral/domain"
	"github.com/smallbiznis/bellora/internal/referral/repository"
	userdomain "github.com/smallbiznis/bellora/internal/user/domain"
	userrepository "github.com/smallbiznis/bellora/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:referral_service?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&userdomain.User{}, &domain.ReferralRecord{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM referral_records")
		db.Exec("DELETE FROM users")
	})

	node, err := snowflake.NewNode(2)
	assert.NoError(t, err)

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		Repo:    repository.Provide(),
		Users:   userrepository.Provide(),
		Loyalty: config.NewStaticLoyaltyHolder(config.DefaultLoyaltyConfig()),
	})
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, id snowflake.ID, mobile string, points int64, referredBy *string) *userdomain.User {
	t.Helper()
	user := &userdomain.User{
		ID:           id,
		Name:         "Meera",
		Email:        id.String() + "@example.com",
		MobileNumber: mobile,
		Points:       points,
		ReferralCode: "code-" + id.String(),
		ReferredBy:   referredBy,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func strptr(s string) *string { return &s }

func TestReferralBonusAwarded(t *testing.T) {
	svc, db := setup(t)
	seedUser(t, db, snowflake.ID(1), "9800000001", 100, nil)
	referred := seedUser(t, db, snowflake.ID(2), "9800000002", 0, strptr("9800000001"))

	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))

	var referrer userdomain.User
	assert.NoError(t, db.First(&referrer, "id = ?", 1).Error)
	assert.Equal(t, int64(300), referrer.Points)
}

func TestReferralBonusByGeneratedCode(t *testing.T) {
	svc, db := setup(t)
	seedUser(t, db, snowflake.ID(3), "9800000003", 0, nil)
	referred := seedUser(t, db, snowflake.ID(4), "9800000004", 0, strptr("code-3"))

	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))

	var referrer userdomain.User
	assert.NoError(t, db.First(&referrer, "id = ?", 3).Error)
	assert.Equal(t, int64(200), referrer.Points)
}

func TestReferralReplayAwardsOnce(t *testing.T) {
	svc, db := setup(t)
	seedUser(t, db, snowflake.ID(5), "9800000005", 0, nil)
	referred := seedUser(t, db, snowflake.ID(6), "9800000006", 0, strptr("9800000005"))

	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))
	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))
	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))

	var referrer userdomain.User
	assert.NoError(t, db.First(&referrer, "id = ?", 5).Error)
	assert.Equal(t, int64(200), referrer.Points)

	var count int64
	assert.NoError(t, db.Model(&domain.ReferralRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReferralUnknownCodeIsNoop(t *testing.T) {
	svc, db := setup(t)
	referred := seedUser(t, db, snowflake.ID(7), "9800000007", 0, strptr("does-not-exist"))

	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))

	var count int64
	assert.NoError(t, db.Model(&domain.ReferralRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReferralBlankCodeIsNoop(t *testing.T) {
	svc, db := setup(t)
	noCode := seedUser(t, db, snowflake.ID(8), "9800000008", 0, nil)
	blank := seedUser(t, db, snowflake.ID(9), "9800000009", 0, strptr(""))

	assert.NoError(t, svc.OnUserCreated(context.Background(), noCode))
	assert.NoError(t, svc.OnUserCreated(context.Background(), blank))

	var count int64
	assert.NoError(t, db.Model(&domain.ReferralRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSelfReferralIgnored(t *testing.T) {
	svc, db := setup(t)
	user := seedUser(t, db, snowflake.ID(10), "9800000010", 50, strptr("9800000010"))

	assert.NoError(t, svc.OnUserCreated(context.Background(), user))

	var stored userdomain.User
	assert.NoError(t, db.First(&stored, "id = ?", 10).Error)
	assert.Equal(t, int64(50), stored.Points)
}

func TestMyReferrals(t *testing.T) {
	svc, db := setup(t)
	seedUser(t, db, snowflake.ID(11), "9800000011", 0, nil)
	referred := seedUser(t, db, snowflake.ID(12), "9800000012", 0, strptr("9800000011"))
	assert.NoError(t, svc.OnUserCreated(context.Background(), referred))

	resp, err := svc.MyReferrals(context.Background(), domain.ListReferralsRequest{
		Actor: userdomain.Actor{UserID: "11"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "code-11", resp.ReferralCode)
	assert.Len(t, resp.Referrals, 1)
	assert.Equal(t, snowflake.ID(12), resp.Referrals[0].ReferredUserID)
	assert.Equal(t, "9800000012", resp.Referrals[0].ReferredUserMobile)
	assert.Equal(t, int64(200), resp.Referrals[0].BonusPoints)
}
