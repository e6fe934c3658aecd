// Package metrics exposes Prometheus counters for channel stream listing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ytstreams"

// Page kinds for PagesFetched.
const (
	PageInitial      = "initial"
	PageContinuation = "continuation"
)

// Metrics holds the counters updated by the youtube client. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	PagesFetched      *prometheus.CounterVec
	StreamsYielded    *prometheus.CounterVec
	DuplicatesDropped prometheus.Counter
	ForeignDropped    prometheus.Counter
	FirstPageRetries  prometheus.Counter
	TransportErrors   prometheus.Counter
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PagesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages fetched, by kind (initial, continuation).",
		}, []string{"kind"}),
		StreamsYielded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_yielded_total",
			Help:      "Streams handed to callers, by status.",
		}, []string{"status"}),
		DuplicatesDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped_total",
			Help:      "Items dropped because their video id was already yielded.",
		}),
		ForeignDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "foreign_dropped_total",
			Help:      "Items dropped because they belong to another channel.",
		}),
		FirstPageRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "first_page_retries_total",
			Help:      "Streams page fetches repeated because initial data was missing.",
		}),
		TransportErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_errors_total",
			Help:      "Requests that failed with a network error or non-success status.",
		}),
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) PageFetched(kind string) {
	if m != nil {
		m.PagesFetched.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) StreamYielded(status string) {
	if m != nil {
		m.StreamsYielded.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) DuplicateDropped() {
	if m != nil {
		m.DuplicatesDropped.Inc()
	}
}

func (m *Metrics) ForeignItemDropped() {
	if m != nil {
		m.ForeignDropped.Inc()
	}
}

func (m *Metrics) FirstPageRetried() {
	if m != nil {
		m.FirstPageRetries.Inc()
	}
}

func (m *Metrics) TransportFailed() {
	if m != nil {
		m.TransportErrors.Inc()
	}
}
