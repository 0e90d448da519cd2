package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ingestion outcomes. A nil *Metrics records nothing.
type Metrics struct {
	documents  *prometheus.CounterVec
	candidates *prometheus.CounterVec
	unreadable prometheus.Counter
}

// NewMetrics creates the statement counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_documents_total",
			Help: "Statement documents parsed, by container format and detected layout.",
		}, []string{"format", "layout"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_candidates_total",
			Help: "Expense candidates passed to the ingestion gate, by outcome.",
		}, []string{"outcome"}),
		unreadable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_unreadable_documents_total",
			Help: "Uploads that could not be decoded.",
		}),
	}
	reg.MustRegister(m.documents, m.candidates, m.unreadable)
	return m
}

func (m *Metrics) documentParsed(format, layout string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(format, layout).Inc()
}

func (m *Metrics) documentUnreadable() {
	if m == nil {
		return
	}
	m.unreadable.Inc()
}

func (m *Metrics) candidatesIngested(inserted, skipped int) {
	if m == nil {
		return
	}
	m.candidates.WithLabelValues("inserted").Add(float64(inserted))
	m.candidates.WithLabelValues("skipped").Add(float64(skipped))
}
