// Package response renders the JSON envelopes the browser client reads.
// Every body carries "ok": 1 on success and "ok": 0 on failure.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	deliverycontext "concordia/internal/delivery/context"
)

const (
	okTrue  = 1
	okFalse = 0
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	OK        int    `json:"ok"`
	Error     string `json:"error"` // shown to the user as-is
	Code      string `json:"code"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// OK writes {"ok":1} merged with fields.
func OK(c echo.Context, statusCode int, fields map[string]any) error {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["ok"] = okTrue

	return c.JSON(statusCode, body)
}

// Data writes v as the whole body, for endpoints that return bare documents.
func Data(c echo.Context, statusCode int, v any) error {
	return c.JSON(statusCode, v)
}

// Error writes the failure envelope. Details are dropped for 401, 403 and 5xx.
func Error(c echo.Context, statusCode int, errorCode, message, details string) error {
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = ""
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		OK:        okFalse,
		Error:     message,
		Code:      errorCode,
		Details:   details,
		RequestID: deliverycontext.GetRequestID(c),
	})
}

func InternalServerError(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}
