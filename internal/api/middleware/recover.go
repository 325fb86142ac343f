package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/travelagency/booking-api/pkg/logger"
)

// Recover turns a handler panic into an error returned up the chain instead
// of rendering it in place, so Metrics and RequestLogger above it see the 500.
func Recover() echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l := logger.FromContext(c.Request().Context())
			l.Error().Err(err).Bytes("stack", stack).Str("path", c.Path()).Msg("panic recovered")
			return err
		},
	})
}
