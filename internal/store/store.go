// Package store is the durable account record boundary. The session
// service only ever talks to storage through the AccountStore interface
package store

import (
	"context"
	"errors"

	"contactsapp/auth-api/internal/model"
)

// ErrNotFound reports a missing record, as opposed to a storage failure
var ErrNotFound = errors.New("record not found")

type AccountStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)

	// SetSessionToken stores token as the only valid session token for
	// the account. An empty token logs the account out
	SetSessionToken(ctx context.Context, id, token string) error

	// ConfirmVerification marks the account holding token as verified
	// and clears the token in one conditional update. Returns
	// ErrNotFound when no account holds the token, which is also how a
	// second redemption of a consumed token fails
	ConfirmVerification(ctx context.Context, token string) error

	SetAvatarURL(ctx context.Context, id, url string) error
}
