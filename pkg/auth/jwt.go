package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/utils"
)

// Principal is the verified identity a token carries: user id and role only.
// Account status, ownership and group permissions are always re-fetched from
// storage per request, never read from the token.
type Principal struct {
	Sub  string             `json:"sub"`
	Role constants.UserRole `json:"role"`
}

// Claims represents JWT claims
type Claims struct {
	Role constants.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal extracts the verified principal from the claims
func (c *Claims) Principal() Principal {
	return Principal{Sub: c.Subject, Role: c.Role}
}

var jwtSecret = []byte(getJWTSecret())

func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-change-in-production"
	}
	return secret
}

// GenerateToken creates a JWT token for a user
func GenerateToken(userID string, role constants.UserRole) (string, error) {
	now := time.Now()

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        utils.GenerateID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken validates and parses a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
