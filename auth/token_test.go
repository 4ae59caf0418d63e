package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundtrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)

	token, err := tokens.Issue(map[string]any{"username": "test"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := tokens.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "test", username)
}

func TestTokenServiceExpired(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Nanosecond)

	token, err := tokens.Issue(map[string]any{"username": "test"})
	require.NoError(t, err)

	// Let the nanosecond TTL lapse
	time.Sleep(10 * time.Millisecond)

	_, err = tokens.Decode(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceTampered(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)

	token, err := tokens.Issue(map[string]any{"username": "test"})
	require.NoError(t, err)

	_, err = tokens.Decode(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceWrongSecret(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)
	other := NewTokenService("other-secret", time.Minute)

	token, err := tokens.Issue(map[string]any{"username": "test"})
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceMissingClaim(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)

	token, err := tokens.Issue(map[string]any{"role": "admin"})
	require.NoError(t, err)

	_, err = tokens.Decode(token)
	assert.ErrorIs(t, err, ErrMissingClaim)
}

func TestTokenServiceGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute)

	_, err := tokens.Decode("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
