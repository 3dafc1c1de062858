package store

import (
	"context"
	"errors"
	"fmt"

	"contactsapp/auth-api/internal/model"

	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user, %w", err)
	}

	return nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (s *GormStore) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).
		Where("verification_token = ? AND verification_token <> ''", token).
		First(&user).
		Error
	if err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (s *GormStore) SetSessionToken(ctx context.Context, id, token string) error {
	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("session_token", token)
	if r.Error != nil {
		return fmt.Errorf("failed to update session token, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ConfirmVerification is a single conditional update so that two
// concurrent redemptions of the same token can't both succeed
func (s *GormStore) ConfirmVerification(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotFound
	}

	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("verification_token = ?", token).
		Updates(map[string]any{
			"verified":           true,
			"verification_token": "",
		})
	if r.Error != nil {
		return fmt.Errorf("failed to confirm verification, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *GormStore) SetAvatarURL(ctx context.Context, id, url string) error {
	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("avatar_url", url)
	if r.Error != nil {
		return fmt.Errorf("failed to update avatar URL, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return fmt.Errorf("failed to query user, %w", err)
}
