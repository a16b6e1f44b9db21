package pgwire

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide Prometheus collectors this server updates.
// A nil *Metrics is valid everywhere it's used and simply turns every
// recording call into a no-op, so instrumentation is opt-in.
type Metrics struct {
	ConnectionsOpened prometheus.Counter
	ConnectionsActive prometheus.Gauge
	QueriesTotal      *prometheus.CounterVec
	QueryErrorsTotal  *prometheus.CounterVec
}

// NewMetrics registers this server's collectors against reg and returns the
// handle used to update them. Pass prometheus.DefaultRegisterer to wire
// into the global registry served by promhttp.Handler().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pgwire",
			Name:      "connections_opened_total",
			Help:      "Total number of accepted client connections.",
		}),
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pgwire",
			Name:      "connections_active",
			Help:      "Number of client connections currently being served.",
		}),
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pgwire",
			Name:      "queries_total",
			Help:      "Total number of Query/Execute cycles handled, by outcome.",
		}, []string{"outcome"}),
		QueryErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pgwire",
			Name:      "query_errors_total",
			Help:      "Total number of Query/Execute cycles that ended in ErrorResponse, by SQLSTATE.",
		}, []string{"sqlstate"}),
	}
}

func (m *Metrics) connectionOpened() {
	if m == nil {
		return
	}
	m.ConnectionsOpened.Inc()
	m.ConnectionsActive.Inc()
}

func (m *Metrics) connectionClosed() {
	if m == nil {
		return
	}
	m.ConnectionsActive.Dec()
}

func (m *Metrics) querySucceeded() {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues("ok").Inc()
}

func (m *Metrics) queryFailed(sqlstate string) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues("error").Inc()
	m.QueryErrorsTotal.WithLabelValues(sqlstate).Inc()
}
