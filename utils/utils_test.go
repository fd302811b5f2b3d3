package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", time.Hour)

	token, err := GenerateToken("64b7f0c2a1b2c3d4e5f60718", "ada@example.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	ConfigureJWT("test-secret", time.Hour)
	token, err := GenerateToken("64b7f0c2a1b2c3d4e5f60718", "ada@example.com", RoleCustomer)
	require.NoError(t, err)

	ConfigureJWT("another-secret", time.Hour)
	defer ConfigureJWT("test-secret", time.Hour)

	_, err = VerifyToken(token)
	assert.EqualError(t, err, "invalid token")

	_, err = VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hashed)
	assert.True(t, CheckPassword(hashed, "s3cret!"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}

func TestGenerateOrderReference(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref, err := GenerateOrderReference()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(ref, OrderReferencePrefix))

		suffix := strings.TrimPrefix(ref, OrderReferencePrefix)
		assert.Len(t, suffix, 6)
		assert.Equal(t, strings.ToUpper(suffix), suffix)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestResponseEnvelopes(t *testing.T) {
	ok := SuccessResponse("done", map[string]int{"n": 1})
	assert.Equal(t, true, ok["success"])
	assert.Equal(t, "done", ok["message"])

	bad := ErrorResponse("nope")
	assert.Equal(t, false, bad["success"])
	assert.Equal(t, "nope", bad["error"])
}
