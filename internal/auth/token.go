package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName carries the admin dashboard's token.
const CookieName = "access_token"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Subject string
	Role    string
}

// ExtractAccessToken reads the token from the cookie first, then from a
// bearer Authorization header. It returns "" when neither is present.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// Parse verifies an HS256 token signed with secret.
func Parse(secret []byte, raw string) (Claims, error) {
	if len(secret) == 0 {
		return Claims{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	subject, _ := claims.GetSubject()
	role, _ := claims["role"].(string)
	return Claims{Subject: subject, Role: role}, nil
}

// Issue signs a token for subject valid for ttl from now.
func Issue(secret []byte, subject, role string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
