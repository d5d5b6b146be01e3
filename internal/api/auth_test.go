package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue(42)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	_, err := m.Parse("not.a.token")
	assert.Error(t, err)
}
