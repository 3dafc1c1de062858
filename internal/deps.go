package internal

import (
	"contactsapp/auth-api/internal/service"
	"contactsapp/auth-api/internal/store"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Store    store.AccountStore
	Sessions *service.SessionService

	// Avatars is nil when object storage is disabled
	Avatars *service.AvatarService
}
