// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	deliverycontext "concordia/internal/delivery/context"
	"concordia/internal/delivery/http/response"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves registration, login and session checks.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c echo.Context) error {
	input, err := bindCredentials(c)
	if err != nil {
		return err
	}

	out, err := h.authUC.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return sessionResponse(c, out)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c echo.Context) error {
	input, err := bindCredentials(c)
	if err != nil {
		return err
	}

	out, err := h.authUC.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return sessionResponse(c, out)
}

// GoogleLogin handles POST /api/google-login with a Google ID token.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrMissingIDToken
	}

	out, err := h.authUC.LoginWithIDToken(c.Request().Context(), &usecase.IDTokenLoginInput{IDToken: req.IDToken})
	if err != nil {
		return errors.WithStack(err)
	}

	return sessionResponse(c, out)
}

// VerifyToken handles GET /api/verify-token. The auth middleware has already checked the token.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	return response.OK(c, http.StatusOK, map[string]any{
		"user": deliverycontext.GetSessionUser(c),
	})
}

func bindCredentials(c echo.Context) (*usecase.CredentialsInput, error) {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := c.Validate(&req); err != nil {
		return nil, domainerrors.ErrMissingFields
	}

	return &usecase.CredentialsInput{Username: req.Username, Password: req.Password}, nil
}

func sessionResponse(c echo.Context, out *usecase.SessionOutput) error {
	return response.OK(c, http.StatusOK, map[string]any{
		"user":  out.Username,
		"token": out.Token,
	})
}
