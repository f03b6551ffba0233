package auth_test

import (
	"testing"
	"time"

	"go-fleet/internal/auth"
	autherrors "go-fleet/internal/auth/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := auth.NewTokenService("secret", 7*24*time.Hour).WithClock(func() time.Time { return issuedAt })

	raw, expiresAt, err := tokens.Issue("user-1", "tenant-1", "manager")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(7*24*time.Hour), expiresAt)

	t.Run("round trip", func(t *testing.T) {
		claims, err := tokens.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "tenant-1", claims.TenantID)
		assert.Equal(t, "manager", claims.Role)
	})

	t.Run("expired token is reported as expired", func(t *testing.T) {
		later := tokens.WithClock(func() time.Time { return expiresAt.Add(time.Minute) })

		_, err := later.Parse(raw)
		assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
		assert.NotErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("foreign signature is invalid", func(t *testing.T) {
		other := auth.NewTokenService("another-secret", time.Hour).WithClock(func() time.Time { return issuedAt })

		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("tampered token is invalid", func(t *testing.T) {
		_, err := tokens.Parse(raw[:len(raw)-2] + "xx")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("garbage is invalid", func(t *testing.T) {
		_, err := tokens.Parse("not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := auth.NewBcryptHasher(4)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, h.Compare(hash, "password123"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), autherrors.ErrInvalidCredentials)

	_, err = h.Hash("12345")
	assert.ErrorIs(t, err, autherrors.ErrPasswordTooShort)
}
