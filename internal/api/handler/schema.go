package handler

import (
	"time"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

// messageResponse is the body of operations that return no entity.
type messageResponse struct {
	Message string `json:"message"`
}

type userSummaryResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserSummaryResponse(s *domain.UserSummary) *userSummaryResponse {
	if s == nil {
		return nil
	}
	return &userSummaryResponse{ID: s.ID, Name: s.Name, Email: s.Email}
}

// --- packages ---

type packageResponse struct {
	ID          string               `json:"_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Destination string               `json:"destination"`
	Duration    int                  `json:"duration"`
	Price       float64              `json:"price"`
	Features    []string             `json:"features"`
	IsActive    bool                 `json:"isActive"`
	Agency      *userSummaryResponse `json:"agency"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func toPackageResponse(p *domain.Package, agency *domain.UserSummary) *packageResponse {
	if p == nil {
		return nil
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &packageResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Destination: p.Destination,
		Duration:    p.Duration,
		Price:       p.Price,
		Features:    features,
		IsActive:    p.IsActive,
		Agency:      toUserSummaryResponse(agency),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPackageResponses(views []ports.PackageView) []*packageResponse {
	out := make([]*packageResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toPackageResponse(v.Package, v.Agency))
	}
	return out
}

// --- bookings ---

type transitionResponse struct {
	Field string    `json:"field"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	By    string    `json:"by"`
	At    time.Time `json:"at"`
}

type bookingResponse struct {
	ID             string               `json:"_id"`
	Package        *packageResponse     `json:"package"`
	Client         *userSummaryResponse `json:"client"`
	Agency         *userSummaryResponse `json:"agency"`
	StartDate      time.Time            `json:"startDate"`
	EndDate        time.Time            `json:"endDate"`
	NumberOfPeople int                  `json:"numberOfPeople"`
	TotalPrice     float64              `json:"totalPrice"`
	Status         domain.BookingStatus `json:"status"`
	PaymentStatus  domain.PaymentStatus `json:"paymentStatus"`
	StatusHistory  []transitionResponse `json:"statusHistory"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func toBookingResponse(v *ports.BookingView) *bookingResponse {
	b := v.Booking
	history := make([]transitionResponse, 0, len(b.History))
	for _, t := range b.History {
		history = append(history, transitionResponse{Field: t.Field, From: t.From, To: t.To, By: t.ActorID, At: t.At})
	}
	return &bookingResponse{
		ID:             b.ID,
		Package:        toPackageResponse(v.Package, v.Agency),
		Client:         toUserSummaryResponse(v.Client),
		Agency:         toUserSummaryResponse(v.Agency),
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		NumberOfPeople: b.NumberOfPeople,
		TotalPrice:     b.TotalPrice,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		StatusHistory:  history,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBookingResponses(views []ports.BookingView) []*bookingResponse {
	out := make([]*bookingResponse, 0, len(views))
	for i := range views {
		out = append(out, toBookingResponse(&views[i]))
	}
	return out
}
