// Package service holds the account and session lifecycle logic that
// the HTTP handlers call into
package service

import (
	"context"
	"errors"
	"fmt"

	"contactsapp/auth-api/internal/model"
	"contactsapp/auth-api/internal/store"
	"contactsapp/auth-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SessionService owns signup, email verification, login, logout and
// session token checks. At most one session token is valid per account
// at any time: every login overwrites the stored token and logout
// clears it, so older tokens die even before their expiry
type SessionService struct {
	Store  store.AccountStore
	Argon  *security.ArgonHash
	Tokens *security.TokenIssuer
	Mailer Mailer
}

func NewSessionService(s store.AccountStore, a *security.ArgonHash, t *security.TokenIssuer, m Mailer) *SessionService {
	return &SessionService{
		Store:  s,
		Argon:  a,
		Tokens: t,
		Mailer: m,
	}
}

// Signup creates an unverified account and dispatches the verification
// mail. The caller is expected to have rejected duplicate emails
// already to produce a proper conflict response
func (s *SessionService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := s.Argon.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	verifToken, err := security.GenerateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token, %w", err)
	}

	user := &model.User{
		ID:                userID,
		Email:             email,
		PasswordHash:      hash,
		Subscription:      model.SubscriptionStarter,
		Verified:          false,
		VerificationToken: verifToken,
	}

	if err := s.Store.Create(ctx, user); err != nil {
		return nil, err
	}

	// Mail delivery must never undo or block the signup itself
	s.dispatchMail(email, verifToken, MailPurposeInitial)

	return user, nil
}

// VerifyEmail redeems a verification token. The store clears the token
// in the same conditional update that flips the verified flag, so a
// second redemption finds nothing and fails with ErrNotFound. Two
// concurrent redemptions can both pass the lookup, but only one wins
// the conditional update
func (s *SessionService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.Store.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}

		return err
	}

	if err := s.Store.ConfirmVerification(ctx, token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}

		return err
	}

	zap.L().Info("Account verified", zap.String("userID", user.ID))

	return nil
}

// ResendVerification re-sends the existing verification token. The
// token is not rotated, so a link from the first mail stays usable
func (s *SessionService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}

		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	s.dispatchMail(email, user.VerificationToken, MailPurposeResend)

	return nil
}

// Login checks credentials and issues a fresh session token, storing
// it as the only valid token for the account. Unknown email, unverified
// account and wrong password all fail with the same
// ErrInvalidCredentials so none of them is distinguishable from outside
func (s *SessionService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if !user.Verified {
		return "", nil, ErrInvalidCredentials
	}

	if !s.Argon.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token, %w", err)
	}

	if err := s.Store.SetSessionToken(ctx, user.ID, token); err != nil {
		return "", nil, err
	}

	user.SessionToken = token

	return token, user, nil
}

// Authenticate resolves a raw bearer token to its account. Beyond the
// signature and expiry check, the token must exactly equal the one
// stored on the account, which is what makes logout and re-login kill
// still-unexpired tokens immediately
func (s *SessionService) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	userID, err := s.Tokens.Verify(raw)
	if err != nil {
		return nil, ErrNotAuthorized
	}

	user, err := s.Store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAuthorized
		}

		return nil, err
	}

	if user.SessionToken == "" || user.SessionToken != raw {
		return nil, ErrNotAuthorized
	}

	return user, nil
}

// Logout clears the stored session token. Logging out an already
// logged-out account is a no-op success
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	err := s.Store.SetSessionToken(ctx, userID, "")
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotAuthorized
	}

	return err
}

func (s *SessionService) dispatchMail(email, token, purpose string) {
	go func() {
		if err := s.Mailer.SendVerification(email, token, purpose); err != nil {
			zap.L().Error("Failed to send verification email",
				zap.String("email", email),
				zap.String("purpose", purpose),
				zap.Error(err))
		}
	}()
}
