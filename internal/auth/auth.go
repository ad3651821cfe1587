// Package auth verifies bearer tokens issued by the identity provider and
// turns them into a Principal.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the verified caller.
type Principal struct {
	Subject string
	Email   string
	Name    string
	Claims  map[string]any
}

// Verifier checks a raw bearer token's signature, issuer, audience and
// expiry.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Principal, error)
}

// principalFromClaims reads the subject and profile claims.  Identity
// providers that forbid custom top-level claims in access tokens put them
// under the audience namespace, e.g. "https://api.example.com/email".
func principalFromClaims(claims map[string]any, audience string) (*Principal, error) {
	sub := claimString(claims, "sub")
	if sub == "" {
		return nil, ErrInvalidToken
	}
	ns := strings.TrimSuffix(audience, "/") + "/"
	return &Principal{
		Subject: sub,
		Email:   claimString(claims, "email", ns+"email"),
		Name:    claimString(claims, "name", ns+"name"),
		Claims:  claims,
	}, nil
}

func claimString(claims map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
