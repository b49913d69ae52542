package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "concordia/internal/delivery/context"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/usecase"
)

const bearerScheme = "Bearer"

// AuthMiddleware guards routes behind a session bearer token.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate rejects the request with 401 unless the Authorization header
// carries a valid "Bearer <token>". The verified username is stored on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return domainerrors.ErrMissingAuthorization
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
			return domainerrors.ErrUnauthorized
		}

		username, err := m.authUC.VerifySession(c.Request().Context(), parts[1])
		if err != nil {
			return err
		}

		deliverycontext.SetSessionUser(c, username)

		return next(c)
	}
}
