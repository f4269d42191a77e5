package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const clientTokenIssuer = "workpulse"

var ErrInvalidClientToken = errors.New("invalid client token")

// ClientClaims identify the client that owns a SessionStore. They carry no
// identity or role: those live in the store and change without reissuing.
type ClientClaims struct {
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

func GenerateClientToken(secret string, clientID string, ttl time.Duration) (string, error) {
	if clientID == "" {
		return "", errors.New("client id required")
	}
	now := time.Now()
	claims := ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    clientTokenIssuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseClientToken(tokenStr string, secret string) (*ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(clientTokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClientToken, err)
	}
	claims, ok := token.Claims.(*ClientClaims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidClientToken
	}
	return claims, nil
}
