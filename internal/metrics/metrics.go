// Package metrics defines the Prometheus collectors exported by the
// server: connection/session lifecycle, per-command throughput, and
// handler error rates. Grounded in the teacher's own metrics packages
// (internal/protocol/nfs/v4/state/session_metrics.go and
// metrics_util.go): one struct of typed collectors per concern,
// constructed against a Registerer, with nil-safe recording methods so
// a Collector can be wired everywhere even when a caller (tests, a
// disabled metrics config) passes nil.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aoserver"

// Collector holds every metric the server exports. All recording
// methods are nil-safe: calling them on a nil *Collector is a no-op, so
// callers can leave metrics disabled by simply passing nil around.
type Collector struct {
	ConnectionsAcceptedTotal prometheus.Counter
	ActiveSessions           prometheus.Gauge
	SessionDurationSeconds   prometheus.Histogram
	CommandsTotal            *prometheus.CounterVec
	HandlerErrorsTotal       *prometheus.CounterVec
	KicksTotal               prometheus.Counter
}

// New builds a Collector and registers its collectors with reg. If reg
// is nil, the collectors are still built but never registered, which is
// useful in tests that only want the nil-safety of the record methods
// exercised without a live registry.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ConnectionsAcceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listener",
			Name:      "connections_accepted_total",
			Help:      "Total number of TCP connections accepted.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Current number of admitted, active sessions.",
		}),
		SessionDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "Lifetime of a session from admission to disconnect, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16), // 1s to ~9 hours
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "commands_total",
			Help:      "Total number of client commands dispatched, labeled by wire code.",
		}, []string{"code"}),
		HandlerErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "handler_errors_total",
			Help:      "Total number of handler errors, labeled by error kind.",
		}, []string{"kind"}),
		KicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "kicks_total",
			Help:      "Total number of sessions forcibly disconnected via the admin API.",
		}),
	}

	if reg != nil {
		for _, coll := range []prometheus.Collector{
			c.ConnectionsAcceptedTotal,
			c.ActiveSessions,
			c.SessionDurationSeconds,
			c.CommandsTotal,
			c.HandlerErrorsTotal,
			c.KicksTotal,
		} {
			registerOrReuse(reg, coll)
		}
	}

	return c
}

// registerOrReuse registers coll, tolerating a collector that is already
// registered (e.g. a process restarted without unregistering).
func registerOrReuse(reg prometheus.Registerer, coll prometheus.Collector) {
	if err := reg.Register(coll); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			panic(err)
		}
	}
}

func (c *Collector) RecordConnectionAccepted() {
	if c == nil {
		return
	}
	c.ConnectionsAcceptedTotal.Inc()
}

func (c *Collector) RecordSessionAdmitted() {
	if c == nil {
		return
	}
	c.ActiveSessions.Inc()
}

func (c *Collector) RecordSessionClosed(durationSeconds float64) {
	if c == nil {
		return
	}
	c.ActiveSessions.Dec()
	c.SessionDurationSeconds.Observe(durationSeconds)
}

func (c *Collector) RecordCommand(code string) {
	if c == nil {
		return
	}
	c.CommandsTotal.WithLabelValues(code).Inc()
}

func (c *Collector) RecordHandlerError(kind string) {
	if c == nil {
		return
	}
	c.HandlerErrorsTotal.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordKick() {
	if c == nil {
		return
	}
	c.KicksTotal.Inc()
}

// Handler returns the HTTP handler that serves gatherer's metrics in the
// Prometheus exposition format, for mounting at /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
