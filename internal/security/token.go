package security

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"equipbook-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims carries the authenticated-requester identity issued by the
// external auth service: user id, policy role and home unit.
type UserClaims struct {
	UserID int32  `json:"user_id"`
	Role   string `json:"role"`
	UnitID int32  `json:"unit_id"`
	jwt.RegisteredClaims
}

// Requester converts validated claims to the domain identity.
func (c *UserClaims) Requester() domain.Requester {
	return domain.Requester{
		ID:     c.UserID,
		Role:   domain.Role(c.Role),
		UnitID: c.UnitID,
	}
}

type TokenManager interface {
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == 0 && claims.Subject != "" {
			uid, _ := strconv.Atoi(claims.Subject)
			claims.UserID = int32(uid)
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
