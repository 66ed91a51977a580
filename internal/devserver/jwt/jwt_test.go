package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := NewService("test-secret", 15*time.Minute, time.Hour)

	token, expiresIn, err := service.GenerateAccessToken("user123", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), expiresIn)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	issuer := NewService("secret-a", 15*time.Minute, time.Hour)
	verifier := NewService("secret-b", 15*time.Minute, time.Hour)

	token, _, err := issuer.GenerateAccessToken("user123", "alice@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	service := NewService("test-secret", -time.Minute, time.Hour)

	token, _, err := service.GenerateAccessToken("user123", "alice@example.com")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	service := NewService("test-secret", 15*time.Minute, time.Hour)

	_, err := service.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	service := NewService("test-secret", 15*time.Minute, time.Hour)

	t1, exp1, err := service.GenerateRefreshToken()
	require.NoError(t, err)
	t2, _, err := service.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, t1)
	assert.NotEqual(t, t1, t2)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp1, time.Minute)
}
