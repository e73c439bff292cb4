package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 720 * time.Hour,
		Issuer:        "tripmate-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAccessToken(cfg, 42, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestParseAccessToken_Invalid(t *testing.T) {
	cfg := testJWTConfig()

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseAccessToken(cfg, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateAccessToken(cfg, 1, "bob@example.com")
		require.NoError(t, err)

		other := testJWTConfig()
		other.AccessSecret = "different-secret"
		_, err = ParseAccessToken(other, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := testJWTConfig()
		short.AccessExpiry = -time.Minute
		token, err := GenerateAccessToken(short, 1, "bob@example.com")
		require.NoError(t, err)

		_, err = ParseAccessToken(short, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		token, err := GenerateRefreshToken(cfg, 1)
		require.NoError(t, err)

		_, err = ParseAccessToken(cfg, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
