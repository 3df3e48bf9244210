package jwt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", NewMemoryBlacklist())

	tokenString, expiresAt, err := svc.GenerateAccessToken("admin", "admin@attendance.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, int64(0))

	token, err := svc.Decode(tokenString)
	require.NoError(t, err)

	username, _ := token.Get("username")
	assert.Equal(t, "admin", username)
	role, _ := token.Get("role")
	assert.Equal(t, "admin", role)
	tokenType, _ := token.Get("type")
	assert.Equal(t, "access", tokenType)
	assert.NotEmpty(t, token.JwtID())
}

func TestDecode_InvalidToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", NewMemoryBlacklist())

	_, err := svc.Decode("not-a-token")
	assert.Error(t, err)
}

func TestDecode_WrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", NewMemoryBlacklist())
	other := NewJWTService("a-different-secret", "1h", NewMemoryBlacklist())

	tokenString, _, err := svc.GenerateAccessToken("admin", "admin@attendance.com", "admin")
	require.NoError(t, err)

	_, err = other.Decode(tokenString)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService(testSecret, "1h", NewMemoryBlacklist())

	tokenString, _, err := svc.GenerateAccessToken("admin", "admin@attendance.com", "admin")
	require.NoError(t, err)

	revoked, err := svc.IsTokenRevoked(ctx, tokenString)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.RevokeToken(ctx, tokenString))

	revoked, err = svc.IsTokenRevoked(ctx, tokenString)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokeToken_DoesNotAffectOtherTokens(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService(testSecret, "1h", NewMemoryBlacklist())

	first, _, err := svc.GenerateAccessToken("admin", "admin@attendance.com", "admin")
	require.NoError(t, err)
	second, _, err := svc.GenerateAccessToken("admin", "admin@attendance.com", "admin")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, first))

	revoked, err := svc.IsTokenRevoked(ctx, second)
	require.NoError(t, err)
	assert.False(t, revoked)
}
