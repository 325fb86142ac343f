package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// bindAndValidate decodes the request body (JSON or form) into req and runs
// struct validation. Both failure kinds surface as domain.ErrValidation so
// the error handler answers 400 with the detail.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return bindError(err)
	}
	return c.Validate(req)
}

func bindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprint(he.Message)
		if he.Internal != nil {
			msg = he.Internal.Error()
		}
		return fmt.Errorf("%w: invalid payload: %s", domain.ErrValidation, msg)
	}
	return fmt.Errorf("%w: invalid payload: %v", domain.ErrValidation, err)
}
