package service

import (
	"context"
	"io"
	"strings"

	a "contactsapp/auth-api/aws"
	"contactsapp/auth-api/internal/store"
)

// AvatarService uploads profile pictures to S3 and records the public
// URL on the account. Avatars are keyed by user ID so a re-upload
// replaces the previous object
type AvatarService struct {
	S3        *a.S3Client
	Store     store.AccountStore
	PublicURL string
}

func NewAvatarService(s3c *a.S3Client, st store.AccountStore, publicURL string) *AvatarService {
	return &AvatarService{
		S3:        s3c,
		Store:     st,
		PublicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (s *AvatarService) Upload(ctx context.Context, userID, contentType string, body io.Reader) (string, error) {
	key := "avatars/" + userID

	if err := s.S3.Upload(ctx, key, contentType, body); err != nil {
		return "", err
	}

	url := s.PublicURL + "/" + key

	if err := s.Store.SetAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}

	return url, nil
}
