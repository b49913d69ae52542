package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"concordia/config"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It refuses to start without a signing secret.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return newJWTService(cfg.SecretKey.Session, time.Now)
}

func newJWTService(secret string, now func() time.Time) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt session secret must be provided")
	}

	return &jwtService{
		secret: []byte(secret),
		ttl:    service.SessionTokenTTL,
		now:    now,
	}, nil
}

// Issue signs {user, sub, iat, exp} for subject.
func (s *jwtService) Issue(subject string) (string, error) {
	issuedAt := s.now()
	claims := service.Claims{
		User: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the token subject.
// A token is expired from the instant its exp is reached.
func (s *jwtService) Verify(tokenString string) (string, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", classifyTokenError(err)
	}

	subject := claims.User
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return "", service.ErrTokenMalformed
	}

	return subject, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return service.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return service.ErrTokenInvalidSignature
	default:
		return service.ErrTokenMalformed
	}
}
