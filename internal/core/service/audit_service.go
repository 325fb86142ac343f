package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
	"github.com/travelagency/booking-api/internal/pkg/metrics"
)

// EventSink abstracts the outbound broker (Kafka).
type EventSink interface {
	PublishBookingEvent(ctx context.Context, event domain.BookingEvent) error
}

type auditService struct {
	repo ports.BookingEventRepository
	sink EventSink
	log  zerolog.Logger
}

// NewAuditService returns an AuditService. sink may be nil when no broker is
// configured.
func NewAuditService(repo ports.BookingEventRepository, sink EventSink, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, sink: sink, log: log}
}

// Record persists a booking event and forwards it to the broker. A broker
// failure is logged and counted but does not fail the call.
func (s *auditService) Record(ctx context.Context, event domain.BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("record booking event: %w", err)
	}
	metrics.AuditEventsRecordedTotal.WithLabelValues(string(event.Type)).Inc()

	if s.sink != nil {
		if err := s.sink.PublishBookingEvent(ctx, event); err != nil {
			metrics.AuditEventsErrorsTotal.WithLabelValues("publish_failed").Inc()
			s.log.Warn().Err(err).Str("booking_id", event.BookingID).Str("type", string(event.Type)).Msg("failed to publish booking event")
		}
	}

	s.log.Debug().
		Str("booking_id", event.BookingID).
		Str("type", string(event.Type)).
		Str("actor_id", event.ActorID).
		Msg("booking event recorded")
	return nil
}
