package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/core/ports"
)

type BookingHandler struct {
	svc ports.BookingService
}

func NewBookingHandler(svc ports.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// List returns the bookings visible to the caller, newest first.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookingResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	views, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(views))
}

// Get returns one booking.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  bookingResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	view, err := h.svc.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(view))
}

// Create books a package for the calling client.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json,mpfd,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking"
// @Success      201   {object}  bookingResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.svc.Create(c.Request().Context(), req.toInput(actor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookingResponse(view))
}

// UpdateStatus moves the booking along the status state machine.
//
// @Summary      Update booking status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Booking ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Failure      422   {object}  api.ErrorResponse
// @Router       /api/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.svc.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(view))
}

// UpdatePayment moves the booking along the payment state machine.
//
// @Summary      Update booking payment status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking ID"
// @Param        body  body      updatePaymentRequest  true  "New payment status"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Failure      422   {object}  api.ErrorResponse
// @Router       /api/bookings/{id}/payment [patch]
func (h *BookingHandler) UpdatePayment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req updatePaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.svc.UpdatePaymentStatus(c.Request().Context(), actor, c.Param("id"), req.PaymentStatus)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(view))
}
