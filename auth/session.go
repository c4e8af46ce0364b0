package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	IsServer bool   `json:"isServer"`
}

// GenerateSessionToken signs a HS256 session token valid for validityDuration
func GenerateSessionToken(userID string, isServer bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		IsServer: isServer,
	})
	return token.SignedString(secretKey)
}

// ParseSessionToken verifies the signature and the expiration of a session token
func ParseSessionToken(tokenString string, secretKey []byte) (*TokenData, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidSessionToken
	}
	return &TokenData{UserID: claims.UserID, IsServer: claims.IsServer}, nil
}
