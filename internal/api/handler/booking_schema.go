package handler

import (
	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

// createBookingRequest is the body of POST /api/bookings. Presence and range
// rules are enforced by the booking service.
type createBookingRequest struct {
	PackageID      string    `json:"packageId" form:"packageId" validate:"required"`
	StartDate      looseDate `json:"startDate" form:"startDate" swaggertype:"string" example:"2026-07-01"`
	EndDate        looseDate `json:"endDate" form:"endDate" swaggertype:"string" example:"2026-07-08"`
	NumberOfPeople looseInt  `json:"numberOfPeople" form:"numberOfPeople" swaggertype:"integer"`
}

func (r *createBookingRequest) toInput(actor domain.Actor) ports.CreateBookingInput {
	return ports.CreateBookingInput{
		Actor:          actor,
		PackageID:      r.PackageID,
		StartDate:      r.StartDate.Value,
		EndDate:        r.EndDate.Value,
		NumberOfPeople: r.NumberOfPeople.Value,
	}
}

type updateStatusRequest struct {
	Status string `json:"status" form:"status" example:"confirmed"`
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" form:"paymentStatus" example:"paid"`
}
