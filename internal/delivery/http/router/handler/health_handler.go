package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"concordia/internal/delivery/http/response"
)

// Ping answers GET /api/ping.
func Ping(c echo.Context) error {
	return response.OK(c, http.StatusOK, nil)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.OK(c, http.StatusOK, map[string]any{"status": "ok"})
}
