package auth

import (
	"crypto/subtle"
	"log/slog"
)

type authenticator struct {
	tokens []string
}

// NewAuthenticator guards the API with a bearer-token allowlist. An empty
// allowlist leaves the API open.
func NewAuthenticator(tokens []string) *authenticator {
	slog.Info("api authentication configured", "tokens", len(tokens), "open", len(tokens) == 0)

	return &authenticator{
		tokens: tokens,
	}
}

func (a *authenticator) IsAuthorized(token string) bool {
	if len(a.tokens) == 0 {
		return true
	}
	for _, t := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return true
		}
	}
	return false
}
