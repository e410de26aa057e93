package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"equipbook-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, claims *UserClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}
	return signed
}

func TestTokenManager_ValidateToken(t *testing.T) {
	manager := NewTokenManager(testSecret)

	t.Run("ValidToken", func(t *testing.T) {
		signed := signToken(t, &UserClaims{
			UserID: 7,
			Role:   "STUDENT",
			UnitID: 3,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)

		claims, err := manager.ValidateToken(signed)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), claims.UserID)

		requester := claims.Requester()
		assert.Equal(t, domain.RoleStudent, requester.Role)
		assert.Equal(t, int32(3), requester.UnitID)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		signed := signToken(t, &UserClaims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}, testSecret)

		_, err := manager.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signed := signToken(t, &UserClaims{UserID: 7}, "another-secret-another-secret-12")

		_, err := manager.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := manager.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	// Tokens minted with only a subject claim still resolve a user id.
	t.Run("SubjectFallback", func(t *testing.T) {
		signed := signToken(t, &UserClaims{
			Role: "STAFF",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)

		claims, err := manager.ValidateToken(signed)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
	})
}
