package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/api/middleware"
	"github.com/travelagency/booking-api/internal/core/domain"
)

var (
	agencyUser = &domain.User{ID: "agency-1", Name: "Sunny Tours", Email: "sunny@example.com", Role: domain.RoleAgency}
	clientUser = &domain.User{ID: "client-1", Name: "Carla", Email: "carla@example.com", Role: domain.RoleClient}
)

// newContext builds an echo context with the validator registered, the way
// the router configures it.
func newContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(method, target, echo.MIMEApplicationJSON, body)
}

func withUser(c echo.Context, u *domain.User) echo.Context {
	c.Set(middleware.UserKey, u)
	c.Set(middleware.UserIDKey, u.ID)
	c.Set(middleware.RoleKey, u.Role)
	return c
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}
