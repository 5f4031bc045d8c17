package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticator(t *testing.T) {
	open := NewAuthenticator(nil)
	assert.False(t, open.Enabled())
	assert.True(t, open.IsAuthorized(""))

	a := NewAuthenticator([]string{"alpha", "beta"})
	assert.True(t, a.Enabled())
	assert.True(t, a.IsAuthorized("beta"))
	assert.False(t, a.IsAuthorized("gamma"))
	assert.False(t, a.IsAuthorized(""))
}
