package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
	"github.com/travelagency/booking-api/internal/pkg/metrics"
)

const testSecret = "router-secret"

var (
	routerAgency = &domain.User{ID: "agency-1", Name: "Agency", Email: "a@example.com", Role: domain.RoleAgency}
	routerClient = &domain.User{ID: "client-1", Name: "Client", Email: "c@example.com", Role: domain.RoleClient}
)

type stubUsers struct{}

func (stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	switch id {
	case routerAgency.ID:
		return routerAgency, nil
	case routerClient.ID:
		return routerClient, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubAuth struct{ ports.AuthService }

type stubPackages struct {
	ports.PackageService
	listed int
}

func (s *stubPackages) ListActive(context.Context, ports.PackageFilter) ([]ports.PackageView, error) {
	s.listed++
	return nil, nil
}

type stubBookings struct {
	ports.BookingService
	statusCalls []string
}

func (s *stubBookings) UpdateStatus(_ context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error) {
	s.statusCalls = append(s.statusCalls, status)
	return &ports.BookingView{Booking: &domain.Booking{ID: id, AgencyID: actor.UserID, Status: domain.BookingStatus(status)}}, nil
}

func newTestRouter() (*echo.Echo, *stubPackages, *stubBookings) {
	pkgs := &stubPackages{}
	bookings := &stubBookings{}
	e := NewRouter(Deps{
		Log:       zerolog.Nop(),
		JWTSecret: testSecret,
		Users:     stubUsers{},
		Auth:      stubAuth{},
		Packages:  pkgs,
		Bookings:  bookings,
	})
	return e, pkgs, bookings
}

func tokenFor(t *testing.T, u *domain.User) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ports.ClaimUserID: u.ID,
		ports.ClaimRole:   string(u.Role),
		"exp":             time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicPackageList(t *testing.T) {
	e, pkgs, _ := newTestRouter()

	rec := do(e, http.MethodGet, "/api/packages", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if pkgs.listed != 1 {
		t.Fatalf("expected service to be called once, got %d", pkgs.listed)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected a generated request id")
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	e, _, _ := newTestRouter()

	for _, path := range []string{"/api/packages/agency", "/api/bookings", "/api/auth/me"} {
		rec := do(e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
		var resp ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message == "" {
			t.Errorf("%s: expected error envelope, got %q", path, rec.Body.String())
		}
	}
}

func TestRouter_RoleGates(t *testing.T) {
	e, _, _ := newTestRouter()

	rec := do(e, http.MethodPost, "/api/packages", tokenFor(t, routerClient), `{"title":"x"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client creating a package: expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/bookings", tokenFor(t, routerAgency), `{"packageId":"p1"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("agency creating a booking: expected 403, got %d", rec.Code)
	}

	rec = do(e, http.MethodPatch, "/api/bookings/b1/status", tokenFor(t, routerClient), `{"status":"confirmed"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client changing status: expected 403, got %d", rec.Code)
	}
}

func TestRouter_StatusAcceptsPutAndPatch(t *testing.T) {
	e, _, bookings := newTestRouter()
	token := tokenFor(t, routerAgency)

	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		rec := do(e, method, "/api/bookings/b1/status", token, `{"status":"confirmed"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", method, rec.Code, rec.Body.String())
		}
	}
	if len(bookings.statusCalls) != 2 {
		t.Fatalf("expected two service calls, got %v", bookings.statusCalls)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	e, _, _ := newTestRouter()

	rec := do(e, http.MethodGet, "/api/nowhere", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message == "" {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
}

// The package stub leaves Get unimplemented, so calling it panics.
func TestRouter_PanicIsRenderedCountedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	e := NewRouter(Deps{
		Log:       zerolog.New(&buf),
		JWTSecret: testSecret,
		Users:     stubUsers{},
		Auth:      stubAuth{},
		Packages:  &stubPackages{},
		Bookings:  &stubBookings{},
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/packages/:id", "500")
	var before dto.Metric
	if err := counter.Write(&before); err != nil {
		t.Fatalf("read counter: %v", err)
	}

	rec := do(e, http.MethodGet, "/api/packages/p1", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message != "internal server error" {
		t.Fatalf("expected generic error envelope, got %q", rec.Body.String())
	}

	var after dto.Metric
	if err := counter.Write(&after); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if got := after.GetCounter().GetValue() - before.GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected the 500 to be counted once, grew by %v", got)
	}

	var logged bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if entry["message"] != "request" {
			continue
		}
		logged = true
		if entry["level"] != "error" || entry["error"] == nil || entry["status"] != float64(http.StatusInternalServerError) {
			t.Fatalf("expected the request logged as an error with its cause, got %+v", entry)
		}
	}
	if !logged {
		t.Fatalf("expected a request log line, got %q", buf.String())
	}
}
