package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "7b6d3f0a-2f6c-4c38-a6e1-0f1d2c3b4a59",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleUser,
	}
}

func TestTokenManager_MintValidateRoundtrip(t *testing.T) {
	manager := NewTokenManager("test-secret-that-is-long-enough!", time.Hour)
	user := testUser()

	tokenString, err := manager.Mint(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := manager.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	minter := NewTokenManager("secret-one-secret-one-secret-one", time.Hour)
	verifier := NewTokenManager("secret-two-secret-two-secret-two", time.Hour)

	tokenString, err := minter.Mint(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	manager := NewTokenManager("test-secret-that-is-long-enough!", -time.Minute)

	tokenString, err := manager.Mint(testUser())
	require.NoError(t, err)

	_, err = manager.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret-that-is-long-enough!", time.Hour)

	_, err := manager.Validate("not.a.token")
	assert.Error(t, err)
}
