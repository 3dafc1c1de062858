// Package model holds the database records persisted through gorm
package model

import "time"

const (
	SubscriptionStarter = "starter"
	SubscriptionPro     = "pro"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Subscription string `gorm:"default:starter"`
	Verified     bool   `gorm:"default:false"`

	// Present while the account is unverified, cleared exactly once on
	// redemption. Empty means verification already happened
	VerificationToken string `gorm:"index"`

	// The single token accepted for this account. Overwritten on login,
	// emptied on logout; anything else presented is stale
	SessionToken string

	AvatarURL string

	CreatedAt time.Time
}
