package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateAccessToken(7, "anna", "Sales Manager", "secret", 30)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.EmployeeID)
	assert.Equal(t, "anna", claims.Login)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestAccessToken_UniqueID(t *testing.T) {
	a, _, err := GenerateAccessToken(1, "a", "Administrator", "secret", 30)
	require.NoError(t, err)
	b, _, err := GenerateAccessToken(1, "a", "Administrator", "secret", 30)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestValidateAccessToken_Failures(t *testing.T) {
	token, _, err := GenerateAccessToken(1, "a", "Administrator", "secret", 30)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateAccessToken("garbage", "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired, _, err := GenerateAccessToken(1, "a", "Administrator", "secret", -1)
	require.NoError(t, err)
	_, err = ValidateAccessToken(expired, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}
