package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonHash_RoundTrip(t *testing.T) {
	a := NewArgonHash()

	encoded, err := a.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", encoded)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	assert.True(t, a.Verify("secret1", encoded))
	assert.False(t, a.Verify("secret2", encoded))
	assert.False(t, a.Verify("", encoded))
}

func TestArgonHash_SaltsDiffer(t *testing.T) {
	a := NewArgonHash()

	first, err := a.Hash("same-password")
	require.NoError(t, err)

	second, err := a.Hash("same-password")
	require.NoError(t, err)

	// A fresh salt per call means two hashes of the same input differ
	assert.NotEqual(t, first, second)
	assert.True(t, a.Verify("same-password", first))
	assert.True(t, a.Verify("same-password", second))
}

func TestArgonHash_MalformedStoredHash(t *testing.T) {
	a := NewArgonHash()

	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"plaintext", "hunter2"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$nonsense$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$!!!"},
		{"too few parts", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, a.Verify("whatever", tc.encoded))
		})
	}
}
