package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	tok, exp, err := GenerateToken(testSecret, "alice", "Manager", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Manager", claims.Role)
	assert.Equal(t, "alice", claims.RegisteredClaims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tok, _, err := GenerateToken(testSecret, "alice", "Manager", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), tok)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tok, _, err := GenerateToken(testSecret, "alice", "Manager", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, tok)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not-a-token")
	assert.Error(t, err)
}
