package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/pkg/logger"
)

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "...", "error": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, ErrorResponse) {
	// Echo's own errors (router 404/405, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Message: "validation failed", Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Message: "authentication required"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: "access denied"}
	case errors.Is(err, domain.ErrPackageNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "package not found"}
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "booking not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, ErrorResponse{Message: "user already exists"}
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, ErrorResponse{Message: "record was modified concurrently, reload and retry"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, ErrorResponse{Message: "invalid status transition", Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	l := log
	if scoped := logger.FromContext(c.Request().Context()); scoped.GetLevel() != zerolog.Disabled {
		l = scoped
	}
	l.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
}
