package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret"), TTL: time.Hour}

	token, exp, err := m.GenerateAccessToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	uid, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestJWTExpiredToken(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret"), TTL: -time.Minute}

	token, _, err := m.GenerateAccessToken("user-123")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := &JWTManager{Secret: []byte("secret-a"), TTL: time.Hour}
	verifier := &JWTManager{Secret: []byte("secret-b"), TTL: time.Hour}

	token, _, err := issuer.GenerateAccessToken("user-123")
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestJWTGarbageToken(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret"), TTL: time.Hour}

	_, err := m.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}
