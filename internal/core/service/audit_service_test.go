package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
)

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.BookingEvent
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.BookingEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubSink struct {
	err       error
	published []domain.BookingEvent
}

func (s *stubSink) PublishBookingEvent(_ context.Context, e domain.BookingEvent) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, e)
	return nil
}

func sampleEvent() domain.BookingEvent {
	return domain.BookingEvent{
		ID:        "evt-1",
		Type:      domain.EventBookingStatusChanged,
		BookingID: "bk-1",
		From:      "pending",
		To:        "confirmed",
		ActorID:   "agency-a",
		ActorRole: domain.RoleAgency,
	}
}

func TestAuditService_Record_HappyPath(t *testing.T) {
	repo := &stubEventRepo{}
	sink := &stubSink{}
	svc := NewAuditService(repo, sink, zerolog.Nop())

	if err := svc.Record(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
	if repo.inserted[0].OccurredAt.IsZero() {
		t.Errorf("expected OccurredAt to be defaulted")
	}
	if len(sink.published) != 1 || sink.published[0].BookingID != "bk-1" {
		t.Errorf("expected event forwarded to sink, got %+v", sink.published)
	}
}

func TestAuditService_Record_InsertFailure(t *testing.T) {
	repo := &stubEventRepo{insertErr: errors.New("mongo down")}
	sink := &stubSink{}
	svc := NewAuditService(repo, sink, zerolog.Nop())

	if err := svc.Record(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error")
	}
	if len(sink.published) != 0 {
		t.Errorf("event must not be published when the insert fails")
	}
}

func TestAuditService_Record_PublishFailureIsNotFatal(t *testing.T) {
	repo := &stubEventRepo{}
	sink := &stubSink{err: errors.New("broker unavailable")}
	svc := NewAuditService(repo, sink, zerolog.Nop())

	if err := svc.Record(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish failure must not fail Record: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("expected event persisted")
	}
}

func TestAuditService_Record_NilSink(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewAuditService(repo, nil, zerolog.Nop())

	if err := svc.Record(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
