package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/legacy-vault-api/internal/apperr"
)

// Claims carries the standard registered claims plus the user identifier
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// GenerateToken issues a signed HS256 bearer token for the user
func GenerateToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// UserIDFromToken verifies a token and extracts the user identifier
func UserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", apperr.ErrUnauthorized
	}
	if !token.Valid || claims.UserID == "" {
		return "", apperr.ErrUnauthorized
	}

	return claims.UserID, nil
}
