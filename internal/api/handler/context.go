package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/api/middleware"
	"github.com/travelagency/booking-api/internal/core/domain"
)

// currentUser returns the user injected by the Auth middleware, or
// ErrUnauthenticated when the route was mounted without it.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.UserKey).(*domain.User)
	if !ok || user == nil || user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

func currentActor(c echo.Context) (domain.Actor, error) {
	user, err := currentUser(c)
	if err != nil {
		return domain.Actor{}, err
	}
	return user.Actor(), nil
}
