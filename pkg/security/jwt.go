package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrInvalidToken covers every way a session token can be rejected:
// bad signature, expired, malformed. Callers get no finer detail
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims carries the account identity inside a signed session token
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenIssuer signs and verifies session tokens with a process-wide
// secret. The secret is fixed at construction; rotating it invalidates
// every token issued before the restart
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenIssuer(secret string, lifetime time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("no JWT secret provided")
	}

	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	return &TokenIssuer{
		secret:   []byte(secret),
		lifetime: lifetime,
	}, nil
}

// Issue creates a fresh HS256 token for userID expiring after the
// configured lifetime. The jti claim makes every token unique, two
// logins within the same second still get distinct tokens
func (t *TokenIssuer) Issue(userID string) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
		},
		UserID: userID,
	})

	return token.SignedString(t.secret)
}

// Verify checks the signature and expiry of raw and returns the user ID
// it was issued for. Any failure surfaces as ErrInvalidToken
func (t *TokenIssuer) Verify(raw string) (string, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}

		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
