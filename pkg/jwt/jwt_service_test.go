package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-price-tracker/domain"
)

func TestUserTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.NewString()

	token := service.GenerateTokenUser(userID, "shopper@example.com")
	require.NotEmpty(t, token)

	got, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestUserTokenRejectsTampering(t *testing.T) {
	service := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	token := other.GenerateTokenUser(uuid.NewString(), "shopper@example.com")
	_, err := service.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = service.GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResetTokenCarriesClaims(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateTokenResetPassword(map[string]any{
		"user_id": "abc",
		"email":   "shopper@example.com",
	}, time.Minute*30)
	require.NoError(t, err)

	claims, err := service.ValidateTokenResetPassword(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims["user_id"])
	assert.Equal(t, "shopper@example.com", claims["email"])
}

func TestResetTokenExpiry(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateTokenResetPassword(map[string]any{
		"user_id": "abc",
	}, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateTokenResetPassword(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
