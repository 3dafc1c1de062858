package service

import (
	"time"

	"contactsapp/auth-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountCleanup periodically deletes accounts that never verified
// their email. Verification tokens themselves carry no expiry, so this
// sweep is what keeps abandoned signups from piling up
func AccountCleanup(tick, maxAge time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(tick)

	zap.L().Debug("Account cleanup attached",
		zap.Duration("tick_every", tick),
		zap.Duration("max_age", maxAge))

	go func() {
		for range ticker.C {
			cutoff := time.Now().Add(-maxAge)

			r := db.
				Where("verified = ? AND created_at < ?", false, cutoff).
				Delete(&model.User{})
			if r.Error != nil {
				zap.L().Error("Failed to cleanup unverified accounts", zap.Error(r.Error))
				continue
			}

			if r.RowsAffected > 0 {
				zap.L().Info("Cleaned up unverified accounts", zap.Int64("count", r.RowsAffected))
			}
		}
	}()
}
