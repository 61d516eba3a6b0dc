package emailcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		email string
		want  error
	}{
		{"jane@acme.io", nil},
		{"jane@Sub.Acme.COM", nil},
		{"jane.acme.io", ErrInvalidAddress},
		{"jane@gmail.com", ErrPersonalDomain},
		{"jane@GMAIL.com", ErrPersonalDomain},
		{"jane@hotmail.co.uk", ErrPersonalDomain},
		{"jane@localhost", ErrPersonalDomain},
		{"jane@", ErrPersonalDomain},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.email))
		})
	}
}

func TestIsWorkEmail(t *testing.T) {
	assert.True(t, IsWorkEmail("cfo@fund.capital"))
	assert.False(t, IsWorkEmail("no-at-sign"))
	assert.False(t, IsWorkEmail("me@icloud.com"))
}
