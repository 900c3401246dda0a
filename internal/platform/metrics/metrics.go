// Package metrics defines the Prometheus collectors of the import pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Imports records import outcomes. A nil *Imports records nothing.
type Imports struct {
	total    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewImports creates the collectors and registers them with reg.
func NewImports(reg prometheus.Registerer) *Imports {
	m := &Imports{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_imports_total",
			Help: "Imports processed, by schema and outcome.",
		}, []string{"schema", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_import_rows_total",
			Help: "Subscription rows stored, by schema.",
		}, []string{"schema"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "club_import_duration_seconds",
			Help:    "Time to parse and store one import.",
			Buckets: prometheus.DefBuckets,
		}, []string{"schema"}),
	}
	reg.MustRegister(m.total, m.rows, m.duration)
	return m
}

func (m *Imports) Observe(schema, outcome string, rows int, d time.Duration) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(schema, outcome).Inc()
	if outcome == OutcomeStored {
		m.rows.WithLabelValues(schema).Add(float64(rows))
	}
	m.duration.WithLabelValues(schema).Observe(d.Seconds())
}
