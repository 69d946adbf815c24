package auth

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/media-ranker/backend/internal/models"
)

func TestGenerateAndValidate(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	token, err := tokens.Generate(models.User{ID: 7, Username: "ada"})
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateRejects(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)
	expired := NewTokenService("test-secret", -time.Minute)

	foreign, err := other.Generate(models.User{ID: 1, Username: "ada"})
	require.NoError(t, err)
	stale, err := expired.Generate(models.User{ID: 1, Username: "ada"})
	require.NoError(t, err)

	none := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := none.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
		"alg none":     unsigned,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Validate(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateRequiresUser(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	token, err := tokens.Generate(models.User{Username: "ghost"})
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
	assert.False(t, CheckPassword("not-a-hash", "password123"))
}
