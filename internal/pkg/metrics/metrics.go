// Package metrics defines and registers all custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - path: the matched route template (e.g. "/api/bookings/:id")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "path", "status"},
)

// HTTPRequestDuration measures request latency, same labels as HTTPRequestsTotal.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts newly created bookings.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// BookingTransitionsTotal counts applied status and payment changes.
// Labels:
//   - field: "status" or "paymentStatus"
//   - to: the new value
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status/payment transitions applied.",
	},
	[]string{"field", "to"},
)

// BookingTransitionsRejectedTotal counts transitions refused by the state machine.
// Label:
//   - field: "status" or "paymentStatus"
var BookingTransitionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_rejected_total",
		Help:      "Total number of booking transitions rejected as invalid.",
	},
	[]string{"field"},
)

// ── Package metrics ───────────────────────────────────────────────────────────

// PackagesWrittenTotal counts package writes.
// Label:
//   - op: "create", "update" or "delete"
var PackagesWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packages_written_total",
		Help:      "Total number of package writes, by operation.",
	},
	[]string{"op"},
)

// PackageCacheTotal counts active-package cache lookups.
// Label:
//   - result: "hit", "miss", "error" or "stale" (refill skipped after a concurrent invalidation)
var PackageCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "package_cache_total",
		Help:      "Total number of active-package cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsRecordedTotal counts booking events written to the audit trail.
// Label:
//   - type: the event type (e.g. "booking.created")
var AuditEventsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_recorded_total",
		Help:      "Total number of booking events recorded.",
	},
	[]string{"type"},
)

// AuditEventsErrorsTotal counts audit failures.
// Label:
//   - reason: "insert_failed", "publish_failed", "queue_closed" or "queue_full"
var AuditEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_errors_total",
		Help:      "Total number of booking events that failed to be recorded or published.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
