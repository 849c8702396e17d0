package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of an issued session token.
const SessionTTL = 24 * time.Hour

// SessionClaims is the identity embedded in a session token.
type SessionClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (sc *SessionClaims) IsAdmin() bool {
	return sc.Role == "admin"
}

func (sc *SessionClaims) IsOwner(userID string) bool {
	return sc.UserID == userID
}

// TokenMaker signs and verifies session tokens with a shared secret.
type TokenMaker struct {
	secretKey string
	tokenTTL  time.Duration
}

func NewTokenMaker(secretKey string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

func (tm *TokenMaker) GenerateToken(userID, username, role string) (string, error) {
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

func (tm *TokenMaker) ParseToken(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}
