package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestPasswordHashIsSalted(t *testing.T) {
	first, err := HashPassword("secret123")
	require.NoError(t, err)
	second, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("secret123", first))
	assert.True(t, CheckPasswordHash("secret123", second))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 7)

	token, err := issuer.GenerateToken(42, "volga")
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "volga", claims.Username)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 7)
	other := NewTokenIssuer("other-secret", 7)

	token, err := issuer.GenerateToken(42, "volga")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 7)

	_, err := issuer.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
