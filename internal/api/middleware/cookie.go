package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the name of the browser cookie carrying the session.
const SessionCookieName = "members_session"

// CookieCodec wraps the opaque session token in a signed envelope before it
// leaves the server, the same job express-session's signed sid cookie does.
// The cookie value is an HS256 JWT whose "sid" claim is the store token; the
// signature proves the cookie came from us, the token stays opaque.
type CookieCodec struct {
	secret []byte
}

func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret)}
}

type sidClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Encode signs the session token into a cookie value.
func (c *CookieCodec) Encode(token string, ttl time.Duration) (string, error) {
	claims := sidClaims{
		SID: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the cookie value and returns the embedded session token.
// Any defect (bad signature, wrong algorithm, expired wrapper, missing
// claim) returns an error; callers treat that the same as no cookie.
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := &sidClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("session cookie: %w", err)
	}
	if claims.SID == "" {
		return "", fmt.Errorf("session cookie: missing sid claim")
	}
	return claims.SID, nil
}
