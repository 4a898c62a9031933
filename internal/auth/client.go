package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidClientToken indicates a client token that cannot be trusted.
var ErrInvalidClientToken = errors.New("invalid client token")

const clientTokenIssuer = "nonnoweb"

// ClientClaims identify an anonymous or logged-in browser client.
type ClientClaims struct {
	jwt.RegisteredClaims
	ClientID string `json:"cid"`
}

// NewClientID returns a fresh random client id.
func NewClientID() string {
	return uuid.NewString()
}

// GenerateClientToken signs an HS256 token carrying clientID.
func GenerateClientToken(clientID string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    clientTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ClientID: clientID,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

// ParseClientToken verifies the token and returns its client id.
func ParseClientToken(tokenString string, secret []byte) (string, error) {
	claims := &ClientClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(clientTokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidClientToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidClientToken
	}
	if _, err := uuid.Parse(claims.ClientID); err != nil {
		return "", fmt.Errorf("%w: bad client id", ErrInvalidClientToken)
	}

	return claims.ClientID, nil
}
