package authUtils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("invalid authorization token")

// Claims is what the service keeps in a session token.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// GenerateToken signs an HS256 token carrying the user's claims
func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"name":    claims.Name,
		"role":    claims.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its claims
func ParseToken(secret, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{
		UserID: stringClaim(mapClaims, "user_id"),
		Email:  stringClaim(mapClaims, "email"),
		Name:   stringClaim(mapClaims, "name"),
		Role:   stringClaim(mapClaims, "role"),
	}
	if claims.UserID == "" || claims.Email == "" {
		return Claims{}, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
