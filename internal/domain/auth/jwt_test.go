package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	u := NewUser("Ann", "Ann@Example.com", "hash", RoleManager)

	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), expiresAt, 5*time.Second)

	principal, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), principal.UserID)
	assert.Equal(t, "ann@example.com", principal.Email)
	assert.Equal(t, RoleManager, principal.Role)
}

func TestJWT_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	u := NewUser("Ann", "ann@example.com", "hash", RoleStaff)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(DefaultJWTConfig("other-secret"))
		token, _, err := other.GenerateAccessToken(u)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTService(DefaultJWTConfig("test-secret"))
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.GenerateAccessToken(u)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "token expired", appErr.Message)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			UserID:           u.ID.String(),
			Role:             RoleAdmin,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := NewUser("Eve", "eve@example.com", "hash", "root")
		token, _, err := svc.GenerateAccessToken(bad)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	})
}
