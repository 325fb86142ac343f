package ports

import (
	"context"

	"github.com/travelagency/booking-api/internal/core/domain"
)

// BookingFilter scopes a booking listing. Empty fields are not applied, so the
// zero value lists every booking (admin).
type BookingFilter struct {
	ClientID string
	AgencyID string
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	// FindByID returns domain.ErrBookingNotFound for unknown or malformed IDs.
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// List returns matching bookings, newest first.
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
	// ApplyTransition atomically sets status and payment status from b,
	// appends t to the history and bumps the version, provided the stored
	// version still equals b.Version. A stale version yields
	// domain.ErrVersionConflict.
	ApplyTransition(ctx context.Context, b *domain.Booking, t domain.BookingTransition) error
}

// BookingEventRepository persists the booking audit trail.
type BookingEventRepository interface {
	Insert(ctx context.Context, event *domain.BookingEvent) error
}
