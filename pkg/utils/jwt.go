package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the session cookie carries: the subject id and role.
// Expiry is handled by the jwt library itself.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenManager signs and verifies session tokens. It is constructed from the
// process configuration so the signing secret never lives in a global.
type TokenManager struct {
	secret []byte
	maxAge time.Duration
}

func NewTokenManager(secret string, maxAge time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), maxAge: maxAge}
}

// MaxAge is the session lifetime, used for the cookie's Max-Age attribute.
func (tm *TokenManager) MaxAge() time.Duration {
	return tm.maxAge
}

func (tm *TokenManager) Generate(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  time.Now().Add(tm.maxAge).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Validate parses and verifies a token string. Any failure (malformed,
// expired, bad signature) comes back as an error.
func (tm *TokenManager) Validate(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token verification failed: token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("token verification failed: invalid claims")
	}

	id, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if id == "" {
		return nil, fmt.Errorf("token verification failed: missing subject")
	}
	if role == "" {
		role = "user"
	}

	return &TokenClaims{UserID: id, Role: role}, nil
}
