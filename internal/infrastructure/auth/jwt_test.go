package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/splitfin/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier() *TokenVerifier {
	return NewTokenVerifier(config.AuthConfig{
		JWTSecret: "test-secret-key-at-least-32-chars",
		Issuer:    "splitfin-portal",
	})
}

func newTestClaims(expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "splitfin-portal",
			Subject:   "buyer-42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		Name:  "Sam Buyer",
		Roles: []string{"purchasing"},
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	v := newTestVerifier()

	t.Run("valid token", func(t *testing.T) {
		token, err := v.Sign(newTestClaims(time.Hour))
		require.NoError(t, err)

		claims, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "buyer-42", claims.Subject)
		assert.Equal(t, "Sam Buyer", claims.Name)
		assert.Equal(t, []string{"purchasing"}, claims.Roles)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := v.Sign(newTestClaims(-time.Hour))
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenVerifier(config.AuthConfig{JWTSecret: "another-secret", Issuer: "splitfin-portal"})
		token, err := other.Sign(newTestClaims(time.Hour))
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := newTestClaims(time.Hour)
		claims.Issuer = "someone-else"
		token, err := v.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := newTestClaims(time.Hour)
		claims.Subject = ""
		token, err := v.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := newTestClaims(time.Hour)
		claims.ExpiresAt = nil
		token, err := v.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, newTestClaims(time.Hour)).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenVerifier_AnyIssuer(t *testing.T) {
	v := NewTokenVerifier(config.AuthConfig{JWTSecret: "secret"})
	claims := newTestClaims(time.Hour)
	claims.Issuer = "whoever"
	token, err := v.Sign(claims)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "whoever", got.Issuer)
}
