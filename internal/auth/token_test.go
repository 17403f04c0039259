package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("unit-secret", 30)

	token, expiresAt, err := tm.GenerateToken(42, "MIL-2026-000042")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "MIL-2026-000042", claims.MemberNumber)

	id, err := claims.MemberID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 30).GenerateToken(1, "MIL-2026-000001")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 30).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("unit-secret"), ttl: -time.Minute}
	token, _, err := tm.GenerateToken(7, "MIL-2026-000007")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}
