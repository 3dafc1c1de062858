package security

import (
	"crypto/rand"
	"encoding/hex"
)

const verificationTokenSize = 32

// GenerateVerificationToken returns a random hex token used to prove
// ownership of an email address. 32 bytes of entropy makes a collision
// across the whole account namespace implausible
func GenerateVerificationToken() (string, error) {
	b := make([]byte, verificationTokenSize)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
