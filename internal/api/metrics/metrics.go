// Package metrics defines and registers all custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coursehub/account-service/internal/core/pipeline"
)

const namespace = "accounts"

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// DispatchTotal counts requests routed through the dispatcher.
// Labels:
//   - kind: request kind (e.g. "accounts.login")
//   - outcome: "success", "failure", "invalid" or "error"
var DispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_total",
		Help:      "Total number of dispatched requests, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// DispatchDuration measures the time spent in the behavior chain and handler.
// Label:
//   - kind: request kind
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of a dispatch including validation and the handler.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// ValidationErrorsTotal counts individual field errors returned to callers.
// Labels:
//   - kind: request kind
//   - field: json field name that failed
var ValidationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_errors_total",
		Help:      "Total number of field validation errors, by request kind and field.",
	},
	[]string{"kind", "field"},
)

// DispatchObserver records every finished dispatch.
type DispatchObserver struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewDispatchObserver returns an observer writing to the package metrics.
func NewDispatchObserver() *DispatchObserver {
	return &DispatchObserver{total: DispatchTotal, duration: DispatchDuration}
}

func (o *DispatchObserver) ObserveDispatch(kind pipeline.Kind, outcome pipeline.Outcome, elapsed time.Duration) {
	o.total.WithLabelValues(string(kind), string(outcome)).Inc()
	o.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// CountValidationErrors records each field error of a rejected request.
func CountValidationErrors(kind pipeline.Kind, errs []pipeline.ValidationError) {
	for _, e := range errs {
		ValidationErrorsTotal.WithLabelValues(string(kind), e.Field).Inc()
	}
}
