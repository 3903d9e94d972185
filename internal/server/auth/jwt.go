// Package auth turns identity-provider tokens into a Principal and carries it
// through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/inkly/inkly/internal/common"
)

// Claims are the registered claims plus the account email. Subject holds the
// account id once the account exists; Email is always required.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// GenerateToken signs an HS256 token for the given identity.
func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: p.Email,
		Name:  p.Name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns the principal it names.
// Expired tokens yield common.ErrTokenExpired; tokens without an email claim
// yield common.ErrNoEmailClaim; every other failure is common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, common.ErrTokenExpired
		}
		return Principal{}, common.ErrInvalidToken
	}

	if !token.Valid {
		return Principal{}, common.ErrInvalidToken
	}
	if claims.Email == "" {
		return Principal{}, common.ErrNoEmailClaim
	}

	return Principal{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}
