package ports

import (
	"context"
	"time"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// BookingView is a booking expanded with its package and participants.
type BookingView struct {
	Booking *domain.Booking
	Package *domain.Package // nil when the package no longer exists
	Client  *domain.UserSummary
	Agency  *domain.UserSummary
}

// CreateBookingInput is the transport-neutral create request.
type CreateBookingInput struct {
	Actor          domain.Actor
	PackageID      string
	StartDate      time.Time
	EndDate        time.Time
	NumberOfPeople int
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	List(ctx context.Context, actor domain.Actor) ([]BookingView, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*BookingView, error)
	Create(ctx context.Context, in CreateBookingInput) (*BookingView, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id, status string) (*BookingView, error)
	UpdatePaymentStatus(ctx context.Context, actor domain.Actor, id, status string) (*BookingView, error)
}

// BookingEventPublisher hands booking events to the audit pipeline. It must
// not block the caller for long and never fails the originating request.
type BookingEventPublisher interface {
	Publish(event domain.BookingEvent)
}

// AuditService records a single booking event.
type AuditService interface {
	Record(ctx context.Context, event domain.BookingEvent) error
}
