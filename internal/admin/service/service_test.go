package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bellora/internal/admin/domain"
	"github.com/smallbiznis/bellora/internal/admin/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:admin_gate?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Admin{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM admins")
	})
	return db
}

func newGate(t *testing.T, db *gorm.DB) domain.Gate {
	t.Helper()
	return New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestIsAdmin(t *testing.T) {
	db := setupDB(t)
	gate := newGate(t, db)
	ctx := context.Background()

	adminID := snowflake.ID(1001)
	assert.NoError(t, db.Create(&domain.Admin{UserID: adminID, CreatedAt: time.Now().UTC()}).Error)

	assert.True(t, gate.IsAdmin(ctx, adminID))
	assert.False(t, gate.IsAdmin(ctx, snowflake.ID(2002)))
}

func TestIsAdminRevoked(t *testing.T) {
	db := setupDB(t)
	gate := newGate(t, db)
	ctx := context.Background()

	adminID := snowflake.ID(3003)
	assert.NoError(t, db.Create(&domain.Admin{UserID: adminID, CreatedAt: time.Now().UTC()}).Error)
	assert.True(t, gate.IsAdmin(ctx, adminID))

	// Revocation takes effect on the very next check.
	assert.NoError(t, db.Delete(&domain.Admin{}, "user_id = ?", adminID).Error)
	assert.False(t, gate.IsAdmin(ctx, adminID))
}

func TestIsAdminFailsClosed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:admin_gate_closed?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	// No migration: the admins table does not exist, every lookup errors.
	gate := newGate(t, db)

	assert.False(t, gate.IsAdmin(context.Background(), snowflake.ID(1)))
}
