package service

import "errors"

var (
	// ErrNotFound reports an unknown verification token or email
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyVerified signals an idempotent no-op on resend, not a
	// hard failure
	ErrAlreadyVerified = errors.New("verification has already been passed")

	// ErrInvalidCredentials deliberately covers unknown email,
	// unverified account and wrong password alike so a caller can't
	// probe which one applied
	ErrInvalidCredentials = errors.New("email or password is wrong")

	// ErrNotAuthorized rejects missing, forged, expired and superseded
	// session tokens with one signal
	ErrNotAuthorized = errors.New("not authorized")
)
