package domain

import "time"

// BookingEventType names a booking lifecycle change.
type BookingEventType string

const (
	EventBookingCreated        BookingEventType = "booking.created"
	EventBookingStatusChanged  BookingEventType = "booking.status_changed"
	EventBookingPaymentChanged BookingEventType = "booking.payment_changed"
)

// BookingEvent is the audit record emitted for every booking mutation.
type BookingEvent struct {
	ID         string           `json:"id"`
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"bookingId"`
	PackageID  string           `json:"packageId"`
	ClientID   string           `json:"clientId"`
	AgencyID   string           `json:"agencyId"`
	From       string           `json:"from,omitempty"`
	To         string           `json:"to,omitempty"`
	ActorID    string           `json:"actorId"`
	ActorRole  Role             `json:"actorRole"`
	OccurredAt time.Time        `json:"occurredAt"`
}
