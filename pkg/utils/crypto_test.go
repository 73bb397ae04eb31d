package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256Hash(t *testing.T) {
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		SHA256Hash("hello"))
}

func TestGenerateAPIToken(t *testing.T) {
	token, err := GenerateAPIToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)

	other, err := GenerateAPIToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestConstantTimeCompare(t *testing.T) {
	assert.True(t, ConstantTimeCompare("secret", "secret"))
	assert.False(t, ConstantTimeCompare("secret", "Secret"))
	assert.False(t, ConstantTimeCompare("secret", "secret2"))
}

func TestLicenseTokenRoundTrip(t *testing.T) {
	token, err := SignLicenseToken("shared-secret", "researcher@example.com", time.Hour)
	require.NoError(t, err)

	valid, err := ValidateJWT(token, "shared-secret")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := SignLicenseToken("shared-secret", "researcher@example.com", time.Hour)
	require.NoError(t, err)

	valid, err := ValidateJWT(token, "other-secret")
	assert.Error(t, err)
	assert.False(t, valid)
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := SignLicenseToken("shared-secret", "researcher@example.com", -2*time.Minute)
	require.NoError(t, err)

	valid, err := ValidateJWT(token, "shared-secret")
	assert.Error(t, err)
	assert.False(t, valid)
}

func TestValidateJWTEmptyInputs(t *testing.T) {
	_, err := ValidateJWT("", "secret")
	assert.Error(t, err)

	_, err = ValidateJWT("token", "")
	assert.Error(t, err)
}
