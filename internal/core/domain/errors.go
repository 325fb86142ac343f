package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrPackageNotFound    = errors.New("package not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrVersionConflict    = errors.New("record was modified concurrently")

	// ErrValidation is the parent of every input/business-rule rejection.
	// Wrap it with fmt.Errorf("%w: ...") to carry the detail.
	ErrValidation = errors.New("validation failed")

	ErrPackageInactive = fmt.Errorf("%w: package is not available for booking", ErrValidation)
)
