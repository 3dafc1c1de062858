package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordValidator(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "secret1", nil},
		{"exactly six", "123456", nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "12345", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", 256), ErrPasswordTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PasswordValidator(tc.password))
		})
	}
}
