package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/core/domain"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.BookingEvent
	err    error
}

func (r *recordingAudit) Record(_ context.Context, e domain.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingAudit) snapshot() []domain.BookingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.BookingEvent(nil), r.events...)
}

func closeWithin(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(3, audit, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 50; i++ {
		d.Publish(domain.BookingEvent{ID: fmt.Sprint(i), BookingID: fmt.Sprintf("bk-%d", i%7)})
	}
	closeWithin(t, d)

	if got := len(audit.snapshot()); got != 50 {
		t.Fatalf("expected 50 recorded events, got %d", got)
	}
}

func TestDispatcher_PreservesPerBookingOrder(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(4, audit, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		for _, b := range []string{"a", "b", "c"} {
			d.Publish(domain.BookingEvent{ID: fmt.Sprint(i), BookingID: b})
		}
	}
	closeWithin(t, d)

	last := map[string]int{}
	for _, e := range audit.snapshot() {
		n, err := strconv.Atoi(e.ID)
		if err != nil {
			t.Fatalf("bad id %q", e.ID)
		}
		if prev, ok := last[e.BookingID]; ok && n <= prev {
			t.Fatalf("booking %s: event %d processed after %d", e.BookingID, n, prev)
		}
		last[e.BookingID] = n
	}
}

func TestDispatcher_RecordErrorDoesNotStopWorker(t *testing.T) {
	audit := &recordingAudit{err: errors.New("mongo down")}
	d := NewDispatcher(1, audit, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.BookingEvent{BookingID: "x"})
	d.Publish(domain.BookingEvent{BookingID: "x"})
	closeWithin(t, d)

	if got := len(audit.snapshot()); got != 2 {
		t.Fatalf("expected both events attempted, got %d", got)
	}
}

func TestDispatcher_PublishAfterCloseIsDropped(t *testing.T) {
	audit := &recordingAudit{}
	d := NewDispatcher(2, audit, zerolog.Nop())
	d.Start(context.Background())
	closeWithin(t, d)

	d.Publish(domain.BookingEvent{BookingID: "late"})
	closeWithin(t, d)

	if got := len(audit.snapshot()); got != 0 {
		t.Fatalf("expected no events, got %d", got)
	}
}

// gatedAudit blocks every Record until release is closed.
type gatedAudit struct {
	recordingAudit
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedAudit) Record(ctx context.Context, e domain.BookingEvent) error {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.recordingAudit.Record(ctx, e)
}

func TestDispatcher_PublishDropsWhenWorkerIsFull(t *testing.T) {
	audit := &gatedAudit{entered: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher(1, audit, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.BookingEvent{ID: "0", BookingID: "slow"})
	select {
	case <-audit.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker never picked up the first event")
	}

	const extra = 10
	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 1; i <= channelBuffer+extra; i++ {
			d.Publish(domain.BookingEvent{ID: fmt.Sprint(i), BookingID: "slow"})
		}
	}()
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		close(audit.release)
		t.Fatalf("Publish blocked on a full worker queue")
	}

	close(audit.release)
	closeWithin(t, d)

	if got := len(audit.snapshot()); got != channelBuffer+1 {
		t.Fatalf("expected %d recorded events, got %d", channelBuffer+1, got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingAudit{}, zerolog.Nop())
	for _, id := range []string{"", "a", "65f1c0ffee0000000000abcd"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index out of range: %d", first)
		}
		if again := d.shardIndex(id); again != first {
			t.Fatalf("shard for %q changed: %d → %d", id, first, again)
		}
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	if d := NewDispatcher(0, &recordingAudit{}, zerolog.Nop()); len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
