package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
	"github.com/travelagency/booking-api/internal/pkg/metrics"
)

type BookingService struct {
	repo     ports.BookingRepository
	packages ports.PackageRepository
	users    ports.UserRepository
	events   ports.BookingEventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewBookingService returns a BookingService. events may be nil.
func NewBookingService(
	repo ports.BookingRepository,
	packages ports.PackageRepository,
	users ports.UserRepository,
	events ports.BookingEventPublisher,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		packages: packages,
		users:    users,
		events:   events,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns the bookings visible to the caller, newest first.
func (s *BookingService) List(ctx context.Context, actor domain.Actor) ([]ports.BookingView, error) {
	var filter ports.BookingFilter
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleClient:
		filter.ClientID = actor.UserID
	case domain.RoleAgency:
		filter.AgencyID = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}

	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.expand(ctx, bookings)
}

func (s *BookingService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.BookingView, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanViewBooking(b) {
		return nil, domain.ErrForbidden
	}
	return s.expandOne(ctx, b)
}

// Create books an active package for the calling client.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingView, error) {
	if in.Actor.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	if err := domain.ValidateBookingRequest(in.StartDate, in.EndDate, in.NumberOfPeople, now); err != nil {
		return nil, err
	}

	pkg, err := s.packages.FindByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, domain.ErrPackageInactive
	}

	b := &domain.Booking{
		PackageID:      pkg.ID,
		ClientID:       in.Actor.UserID,
		AgencyID:       pkg.AgencyID,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		NumberOfPeople: in.NumberOfPeople,
		TotalPrice:     domain.TotalPrice(pkg.Price, in.NumberOfPeople),
		Status:         domain.BookingPending,
		PaymentStatus:  domain.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.log.Error().Err(err).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.BookingsCreatedTotal.Inc()
	s.publish(b, domain.EventBookingCreated, "", string(b.Status), in.Actor, now)
	s.log.Info().
		Str("booking_id", b.ID).
		Str("package_id", b.PackageID).
		Str("client_id", b.ClientID).
		Float64("total_price", b.TotalPrice).
		Msg("booking created")

	return s.expandOne(ctx, b)
}

// UpdateStatus moves a booking along its status lifecycle. The requested
// value is only parsed once the caller is known to manage the booking.
func (s *BookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error) {
	return s.transition(ctx, actor, id, domain.FieldStatus, func(b *domain.Booking) (string, string, bool, error) {
		next, err := domain.ParseBookingStatus(status)
		if err != nil {
			return "", "", false, err
		}
		from := b.Status
		if from == next {
			return string(from), string(next), false, nil
		}
		if !from.CanTransitionTo(next) {
			return string(from), string(next), false, fmt.Errorf("%w: status %s → %s", domain.ErrInvalidTransition, from, next)
		}
		b.Status = next
		return string(from), string(next), true, nil
	})
}

func (s *BookingService) UpdatePaymentStatus(ctx context.Context, actor domain.Actor, id, status string) (*ports.BookingView, error) {
	return s.transition(ctx, actor, id, domain.FieldPaymentStatus, func(b *domain.Booking) (string, string, bool, error) {
		next, err := domain.ParsePaymentStatus(status)
		if err != nil {
			return "", "", false, err
		}
		from := b.PaymentStatus
		if from == next {
			return string(from), string(next), false, nil
		}
		if !from.CanTransitionTo(next) {
			return string(from), string(next), false, fmt.Errorf("%w: paymentStatus %s → %s", domain.ErrInvalidTransition, from, next)
		}
		b.PaymentStatus = next
		return string(from), string(next), true, nil
	})
}

// transition loads a managed booking, lets apply validate and mutate it and
// persists the change with a version check. apply reports changed=false for
// a same-value request, which returns the booking untouched.
func (s *BookingService) transition(
	ctx context.Context,
	actor domain.Actor,
	id, field string,
	apply func(b *domain.Booking) (from, to string, changed bool, err error),
) (*ports.BookingView, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageBooking(b) {
		return nil, domain.ErrForbidden
	}

	from, to, changed, err := apply(b)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			metrics.BookingTransitionsRejectedTotal.WithLabelValues(field).Inc()
		}
		return nil, err
	}
	if !changed {
		return s.expandOne(ctx, b)
	}

	now := s.now()
	t := domain.BookingTransition{Field: field, From: from, To: to, ActorID: actor.UserID, At: now}
	b.UpdatedAt = now
	if err := s.repo.ApplyTransition(ctx, b, t); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", field, err)
	}
	b.History = append(b.History, t)

	eventType := domain.EventBookingStatusChanged
	if field == domain.FieldPaymentStatus {
		eventType = domain.EventBookingPaymentChanged
	}
	metrics.BookingTransitionsTotal.WithLabelValues(field, to).Inc()
	s.publish(b, eventType, from, to, actor, now)
	s.log.Info().
		Str("booking_id", b.ID).
		Str("field", field).
		Str("from", from).
		Str("to", to).
		Str("user_id", actor.UserID).
		Msg("booking updated")

	return s.expandOne(ctx, b)
}

func (s *BookingService) publish(b *domain.Booking, typ domain.BookingEventType, from, to string, actor domain.Actor, at time.Time) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.BookingEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		BookingID:  b.ID,
		PackageID:  b.PackageID,
		ClientID:   b.ClientID,
		AgencyID:   b.AgencyID,
		From:       from,
		To:         to,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		OccurredAt: at,
	})
}

func (s *BookingService) expandOne(ctx context.Context, b *domain.Booking) (*ports.BookingView, error) {
	views, err := s.expand(ctx, []*domain.Booking{b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *BookingService) expand(ctx context.Context, bookings []*domain.Booking) ([]ports.BookingView, error) {
	pkgIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, 2*len(bookings))
	for _, b := range bookings {
		pkgIDs = append(pkgIDs, b.PackageID)
		userIDs = append(userIDs, b.ClientID, b.AgencyID)
	}

	pkgs, err := s.packages.FindByIDs(ctx, pkgIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve packages: %w", err)
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	views := make([]ports.BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := ports.BookingView{Booking: b, Package: pkgs[b.PackageID]}
		if u, ok := users[b.ClientID]; ok {
			v.Client = u.Summary()
		}
		if u, ok := users[b.AgencyID]; ok {
			v.Agency = u.Summary()
		}
		views = append(views, v)
	}
	return views, nil
}
