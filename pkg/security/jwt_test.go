package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	require.Error(t, err)

	_, err = NewTokenIssuer("secret", 0)
	require.Error(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenIssuer_FreshTokenPerIssue(t *testing.T) {
	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	// iat and exp only have second granularity, the jti claim is what
	// keeps back-to-back tokens distinct
	first, err := issuer.Issue("user-123")
	require.NoError(t, err)

	second, err := issuer.Issue("user-123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, token := range []string{first, second} {
		userID, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer, err := NewTokenIssuer("super-secret", time.Nanosecond)
	require.NoError(t, err)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("right-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	other, err := NewTokenIssuer("wrong-secret", time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{"", "not.a.jwt", "garbage"} {
		_, err := issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
