package app

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Magic-link tokens are short-lived HMAC JWTs. The database stores only the
// link ID; possession of the signed token plus an unused row is what logs
// you in.

const tokenIssuer = "rfbooking"

func SignMagicToken(secret []byte, linkID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        linkID,
		Subject:   email,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

var ErrBadToken = errors.New("invalid or expired token")

func ParseMagicToken(secret []byte, token string) (linkID, email string, err error) {
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !t.Valid || claims.ID == "" || claims.Subject == "" {
		return "", "", ErrBadToken
	}
	return claims.ID, claims.Subject, nil
}
