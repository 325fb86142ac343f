package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

type stubBookingService struct {
	listFn          func(ctx context.Context, actor domain.Actor) ([]ports.BookingView, error)
	getFn           func(ctx context.Context, actor domain.Actor, id string) (*ports.BookingView, error)
	createFn        func(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingView, error)
	updateStatusFn  func(ctx context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error)
	updatePaymentFn func(ctx context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error)
}

func (s *stubBookingService) List(ctx context.Context, actor domain.Actor) ([]ports.BookingView, error) {
	return s.listFn(ctx, actor)
}

func (s *stubBookingService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.BookingView, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubBookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error) {
	return s.updateStatusFn(ctx, actor, id, status)
}

func (s *stubBookingService) UpdatePaymentStatus(ctx context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error) {
	return s.updatePaymentFn(ctx, actor, id, status)
}

func sampleBookingView() *ports.BookingView {
	pkg := samplePackageView()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &ports.BookingView{
		Booking: &domain.Booking{
			ID:             "b1",
			PackageID:      pkg.Package.ID,
			ClientID:       clientUser.ID,
			AgencyID:       agencyUser.ID,
			StartDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC),
			NumberOfPeople: 2,
			TotalPrice:     1999,
			Status:         domain.BookingConfirmed,
			PaymentStatus:  domain.PaymentPending,
			History: []domain.BookingTransition{
				{Field: domain.FieldStatus, From: "pending", To: "confirmed", ActorID: agencyUser.ID, At: at},
			},
			CreatedAt: at,
			UpdatedAt: at,
		},
		Package: pkg.Package,
		Client:  clientUser.Summary(),
		Agency:  agencyUser.Summary(),
	}
}

// --- create ---

func TestBookingHandler_Create_ParsesDatesAndPeople(t *testing.T) {
	var got ports.CreateBookingInput
	stub := &stubBookingService{
		createFn: func(_ context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
			got = in
			return sampleBookingView(), nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/api/bookings",
		`{"packageId":"p1","startDate":"2026-07-01","endDate":"2026-07-06T00:00:00Z","numberOfPeople":"2"}`)
	if err := NewBookingHandler(stub).Create(withUser(c, clientUser)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if got.Actor.UserID != clientUser.ID || got.PackageID != "p1" || got.NumberOfPeople != 2 {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.StartDate.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)) ||
		!got.EndDate.Equal(time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected dates %v %v", got.StartDate, got.EndDate)
	}
}

func TestBookingHandler_Create_FormEncoded(t *testing.T) {
	var got ports.CreateBookingInput
	stub := &stubBookingService{
		createFn: func(_ context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
			got = in
			return sampleBookingView(), nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/bookings", echo.MIMEApplicationForm,
		"packageId=p1&startDate=2026-07-01&endDate=2026-07-03&numberOfPeople=4")
	if err := NewBookingHandler(stub).Create(withUser(c, clientUser)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.NumberOfPeople != 4 || got.EndDate.Day() != 3 {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestBookingHandler_Create_LeavesRulesToService(t *testing.T) {
	var got ports.CreateBookingInput
	stub := &stubBookingService{
		createFn: func(_ context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
			got = in
			return nil, domain.ErrValidation
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/api/bookings", `{"packageId":"p1"}`)
	if err := NewBookingHandler(stub).Create(withUser(c, clientUser)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !got.StartDate.IsZero() || got.NumberOfPeople != 0 {
		t.Fatalf("absent fields should reach the service as zero values, got %+v", got)
	}
}

func TestBookingHandler_Create_BadInput(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(context.Context, ports.CreateBookingInput) (*ports.BookingView, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	bodies := []string{
		`{"startDate":"2026-07-01","endDate":"2026-07-02","numberOfPeople":1}`,
		`{"packageId":"p1","startDate":"01/07/2026","endDate":"2026-07-02","numberOfPeople":1}`,
		`{"packageId":"p1","startDate":20260701,"endDate":"2026-07-02","numberOfPeople":1}`,
		`{"packageId":"p1","startDate":"2026-07-01","endDate":"2026-07-02","numberOfPeople":"two"}`,
	}
	for _, body := range bodies {
		c, _ := newJSONContext(http.MethodPost, "/api/bookings", body)
		if err := NewBookingHandler(stub).Create(withUser(c, clientUser)); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

// --- transitions ---

func TestBookingHandler_UpdateStatus(t *testing.T) {
	var gotID, gotStatus string
	stub := &stubBookingService{
		updateStatusFn: func(_ context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error) {
			if actor.UserID != agencyUser.ID {
				t.Fatalf("unexpected actor %+v", actor)
			}
			gotID, gotStatus = id, status
			return sampleBookingView(), nil
		},
	}
	c, rec := newJSONContext(http.MethodPatch, "/api/bookings/b1/status", `{"status":"confirmed"}`)
	if err := NewBookingHandler(stub).UpdateStatus(withID(withUser(c, agencyUser), "b1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotID != "b1" || gotStatus != "confirmed" {
		t.Fatalf("unexpected args %q %q", gotID, gotStatus)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookingHandler_UpdatePayment(t *testing.T) {
	var gotStatus string
	stub := &stubBookingService{
		updatePaymentFn: func(_ context.Context, _ domain.Actor, _, status string) (*ports.BookingView, error) {
			gotStatus = status
			return nil, domain.ErrInvalidTransition
		},
	}
	c, _ := newJSONContext(http.MethodPut, "/api/bookings/b1/payment", `{"paymentStatus":"refunded"}`)
	err := NewBookingHandler(stub).UpdatePayment(withID(withUser(c, agencyUser), "b1"))
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if gotStatus != "refunded" {
		t.Fatalf("unexpected status %q", gotStatus)
	}
}

// --- reads ---

func TestBookingHandler_List_ResponseShape(t *testing.T) {
	stub := &stubBookingService{
		listFn: func(_ context.Context, actor domain.Actor) ([]ports.BookingView, error) {
			if actor.Role != domain.RoleClient {
				t.Fatalf("unexpected actor %+v", actor)
			}
			return []ports.BookingView{*sampleBookingView()}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/bookings", "")
	if err := NewBookingHandler(stub).List(withUser(c, clientUser)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []struct {
		ID      string `json:"_id"`
		Package struct {
			ID     string `json:"_id"`
			Agency struct {
				Name string `json:"name"`
			} `json:"agency"`
		} `json:"package"`
		Client struct {
			Email string `json:"email"`
		} `json:"client"`
		TotalPrice    float64 `json:"totalPrice"`
		Status        string  `json:"status"`
		PaymentStatus string  `json:"paymentStatus"`
		StatusHistory []struct {
			Field string `json:"field"`
			By    string `json:"by"`
		} `json:"statusHistory"`
	}
	decodeBody(t, rec, &resp)
	if len(resp) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(resp))
	}
	b := resp[0]
	if b.ID != "b1" || b.Package.ID != "p1" || b.Package.Agency.Name != agencyUser.Name {
		t.Fatalf("unexpected expansion %+v", b)
	}
	if b.Client.Email != clientUser.Email || b.TotalPrice != 1999 || b.Status != "confirmed" || b.PaymentStatus != "pending" {
		t.Fatalf("unexpected fields %+v", b)
	}
	if len(b.StatusHistory) != 1 || b.StatusHistory[0].Field != "status" || b.StatusHistory[0].By != agencyUser.ID {
		t.Fatalf("unexpected history %+v", b.StatusHistory)
	}
}

func TestBookingHandler_Get(t *testing.T) {
	stub := &stubBookingService{
		getFn: func(_ context.Context, _ domain.Actor, id string) (*ports.BookingView, error) {
			if id != "b1" {
				return nil, domain.ErrBookingNotFound
			}
			return nil, domain.ErrForbidden
		},
	}
	h := NewBookingHandler(stub)

	c, _ := newJSONContext(http.MethodGet, "/api/bookings/b1", "")
	if err := h.Get(withID(withUser(c, clientUser), "b1")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	c, _ = newJSONContext(http.MethodGet, "/api/bookings/zz", "")
	if err := h.Get(withID(withUser(c, clientUser), "zz")); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingHandler_RequiresUser(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})
	c, _ := newJSONContext(http.MethodGet, "/api/bookings", "")
	if err := h.List(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
