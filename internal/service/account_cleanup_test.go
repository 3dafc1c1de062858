package service

import (
	"testing"
	"time"

	"contactsapp/auth-api/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAccountCleanup_SweepsOnlyStaleUnverified(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	old := time.Now().Add(-time.Hour)

	require.NoError(t, db.Create(&model.User{
		ID: "stale", Email: "stale@x.com", PasswordHash: "h",
		Verified: false, CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&model.User{
		ID: "verified", Email: "verified@x.com", PasswordHash: "h",
		Verified: true, CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&model.User{
		ID: "fresh", Email: "fresh@x.com", PasswordHash: "h",
		Verified: false,
	}).Error)

	AccountCleanup(10*time.Millisecond, 30*time.Minute, db)

	require.Eventually(t, func() bool {
		var count int64
		db.Model(&model.User{}).Where("id = ?", "stale").Count(&count)
		return count == 0
	}, 2*time.Second, 10*time.Millisecond)

	var remaining int64
	db.Model(&model.User{}).Count(&remaining)
	require.EqualValues(t, 2, remaining)
}
