package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// PaymentStatus represents the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Transition fields recorded in a booking's history.
const (
	FieldStatus        = "status"
	FieldPaymentStatus = "paymentStatus"
)

// Terminal states have no entry.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid},
	PaymentPaid:    {PaymentRefunded},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, s)
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown payment status %q", ErrValidation, s)
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return slices.Contains(statusTransitions[s], next)
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return slices.Contains(paymentTransitions[s], next)
}

// BookingTransition records a single status or payment change.
type BookingTransition struct {
	Field   string
	From    string
	To      string
	ActorID string
	At      time.Time
}

// Booking is a client's reservation against one package. AgencyID is copied
// from the package at creation so ownership checks never re-read the package.
type Booking struct {
	ID             string
	PackageID      string
	ClientID       string
	AgencyID       string
	StartDate      time.Time
	EndDate        time.Time
	NumberOfPeople int
	TotalPrice     float64
	Status         BookingStatus
	PaymentStatus  PaymentStatus
	History        []BookingTransition
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalPrice computes price × people rounded to cents.
func TotalPrice(price float64, people int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(people))).
		Round(2).
		InexactFloat64()
}

// ValidateBookingRequest checks the creation rules that do not need the
// package: people >= 1, both dates present, start not before today (UTC
// calendar day of now), end not before start.
func ValidateBookingRequest(start, end time.Time, people int, now time.Time) error {
	if people < 1 {
		return fmt.Errorf("%w: numberOfPeople must be at least 1", ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if start.UTC().Before(today) {
		return fmt.Errorf("%w: startDate cannot be in the past", ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
	}
	return nil
}
