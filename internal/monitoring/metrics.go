package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// Metrics holds the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	Submissions      *prometheus.CounterVec
	ContactsFallback *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpl_submissions_total",
				Help: "Total number of public form submissions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ContactsFallback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpl_emergency_contacts_fallback_total",
				Help: "Emergency contact reads served from somewhere other than the database",
			},
			[]string{"source"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gpl_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"Submissions":      m.Submissions,
		"ContactsFallback": m.ContactsFallback,
		"RequestDuration":  m.RequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			log.Error().Err(err).Str("metric", name).Msg("Failed to register metric")
		}
	}
	return m
}

func (m *Metrics) ObserveSubmission(kind, outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveContactsFallback(source string) {
	if m == nil {
		return
	}
	m.ContactsFallback.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
