package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenTTL is the lifetime of every issued session token.
const SessionTokenTTL = 8 * time.Hour

var (
	ErrTokenMalformed        = errors.New("session token is malformed")
	ErrTokenInvalidSignature = errors.New("session token signature is invalid")
	ErrTokenExpired          = errors.New("session token has expired")
)

// Claims is the payload of a session token.
type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// Issue signs a token for subject valid for SessionTokenTTL from now.
	Issue(subject string) (string, error)

	// Verify returns the subject of a valid token, or one of
	// ErrTokenMalformed, ErrTokenInvalidSignature, ErrTokenExpired.
	Verify(token string) (string, error)
}
