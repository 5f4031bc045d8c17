package auth

import (
	"crypto/subtle"
	"log/slog"
)

type authenticator struct {
	tokens []string
}

// NewAuthenticator accepts the given API tokens. With no tokens every request
// is authorized.
func NewAuthenticator(tokens []string) *authenticator {
	slog.Info("api authentication", "enabled", len(tokens) > 0, "tokens", len(tokens))

	return &authenticator{
		tokens: tokens,
	}
}

func (a *authenticator) Enabled() bool {
	return len(a.tokens) > 0
}

func (a *authenticator) IsAuthorized(token string) bool {
	if !a.Enabled() {
		return true
	}
	for _, t := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
			return true
		}
	}
	return false
}
