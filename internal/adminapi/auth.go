package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSecretLength matches the teacher's own JWT secret length
// floor (an HMAC secret shorter than this is trivially brute-forceable).
var ErrInvalidSecretLength = errors.New("admin api secret must be at least 32 characters")

// Claims is the bearer token payload for an authenticated operator.
type Claims struct {
	jwt.RegisteredClaims
	Operator string `json:"operator"`
}

// TokenIssuer signs and validates operator bearer tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenIssuer builds a TokenIssuer. secret must be at least 32 bytes.
func NewTokenIssuer(secret, issuer string, lifetime time.Duration) (*TokenIssuer, error) {
	if len(secret) < 32 {
		return nil, ErrInvalidSecretLength
	}
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, lifetime: lifetime}, nil
}

// Issue mints a bearer token for the named operator.
func (t *TokenIssuer) Issue(operator string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
		},
		Operator: operator,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing admin token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a bearer token, returning its claims.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil {
		return nil, fmt.Errorf("validating admin token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid admin token")
	}
	return claims, nil
}

// requireBearer is chi middleware enforcing a valid bearer token signed
// by issuer.
func requireBearer(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			if _, err := issuer.Validate(strings.TrimPrefix(header, prefix)); err != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
