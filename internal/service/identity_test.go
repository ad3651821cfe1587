package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesOnceAndIgnoresLaterClaims(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1, err := f.identity.Resolve(ctx, Identity{Subject: "auth0|abc", Email: "Ann@Example.com", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u1.Email)

	u2, err := f.identity.Resolve(ctx, Identity{Subject: "auth0|abc", Email: "other@example.com", Name: "Changed"})
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, "Ann", u2.Name)
	assert.Equal(t, "ann@example.com", u2.Email)
}

func TestResolveRequiresSubject(t *testing.T) {
	f := newFixture()
	_, err := f.identity.Resolve(context.Background(), Identity{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLookupUnknownSubject(t *testing.T) {
	f := newFixture()
	_, err := f.identity.Lookup(context.Background(), "auth0|nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user("auth0|abc", "ann@example.com", "Ann")

	name := "  Ann Smith "
	got, err := f.identity.UpdateProfile(ctx, u.ID, &name)
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", got.Name)

	got, err = f.identity.UpdateProfile(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", got.Name)

	tooLong := strings.Repeat("x", 256)
	_, err = f.identity.UpdateProfile(ctx, u.ID, &tooLong)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.identity.UpdateProfile(ctx, 9999, &name)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
