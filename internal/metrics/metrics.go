// Package metrics provides Prometheus instrumentation for screening.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Screening outcomes
const (
	OutcomeMatched         = "matched"
	OutcomeNoMatch         = "no_match"
	OutcomeValidationError = "validation_error"
	OutcomeCatalogError    = "catalog_error"
	OutcomeSessionMissing  = "session_missing"
	OutcomeFinalized       = "finalized"
)

// Metrics provides observability for the screener
type Metrics struct {
	// Stage-one screenings by outcome
	Screenings *prometheus.CounterVec

	// Stage-one matches by scheme
	SchemeMatches *prometheus.CounterVec

	// Step-2 finalizations by outcome
	Finalizations *prometheus.CounterVec

	// Schemes confirmed after step 2 by scheme
	SchemeConfirmations *prometheus.CounterVec

	// Catalog read and decode latency
	CatalogLoadLatency prometheus.Histogram
}

// New creates a Metrics instance registered on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Screenings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_screenings_total",
			Help: "Total stage-one screenings by outcome",
		}, []string{"outcome"}),

		SchemeMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_scheme_matches_total",
			Help: "Total stage-one matches by scheme",
		}, []string{"scheme_id"}),

		Finalizations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_finalizations_total",
			Help: "Total step-2 evaluations by outcome",
		}, []string{"outcome"}),

		SchemeConfirmations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_scheme_confirmations_total",
			Help: "Total schemes confirmed eligible after step 2 by scheme",
		}, []string{"scheme_id"}),

		CatalogLoadLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_catalog_load_duration_seconds",
			Help:    "Duration of reading and decoding the scheme catalog",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementScreening records a stage-one outcome
func (m *Metrics) IncrementScreening(outcome string) {
	if m != nil {
		m.Screenings.WithLabelValues(outcome).Inc()
	}
}

// IncrementSchemeMatch records a stage-one match
func (m *Metrics) IncrementSchemeMatch(schemeID string) {
	if m != nil {
		m.SchemeMatches.WithLabelValues(schemeID).Inc()
	}
}

// IncrementFinalization records a step-2 outcome
func (m *Metrics) IncrementFinalization(outcome string) {
	if m != nil {
		m.Finalizations.WithLabelValues(outcome).Inc()
	}
}

// IncrementSchemeConfirmation records a scheme confirmed after step 2
func (m *Metrics) IncrementSchemeConfirmation(schemeID string) {
	if m != nil {
		m.SchemeConfirmations.WithLabelValues(schemeID).Inc()
	}
}

// ObserveCatalogLoad records how long a catalog load took
func (m *Metrics) ObserveCatalogLoad(d time.Duration) {
	if m != nil {
		m.CatalogLoadLatency.Observe(d.Seconds())
	}
}
