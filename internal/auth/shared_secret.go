package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SharedSecretVerifier accepts HS256 tokens signed with a local secret.
// It is meant for development and tests where no identity provider runs.
type SharedSecretVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewSharedSecretVerifier(secret, issuer, audience string) *SharedSecretVerifier {
	return &SharedSecretVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *SharedSecretVerifier) Verify(_ context.Context, raw string) (*Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return principalFromClaims(claims, v.audience)
}

// DevToken describes a token minted by SignDevToken.
type DevToken struct {
	Subject string
	Email   string
	Name    string
	TTL     time.Duration
}

// SignDevToken builds and signs an HS256 token that SharedSecretVerifier
// with the same secret, issuer and audience accepts.
func SignDevToken(secret, issuer, audience string, d DevToken) (string, time.Time, error) {
	if d.TTL <= 0 {
		d.TTL = time.Hour
	}
	now := time.Now().UTC()
	exp := now.Add(d.TTL)
	claims := jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": d.Subject,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	if d.Email != "" {
		claims["email"] = d.Email
	}
	if d.Name != "" {
		claims["name"] = d.Name
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
