package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ws"

// Registry holds all echo server metrics.
type Registry struct {
	registry *prometheus.Registry

	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	MessagesEchoed    *prometheus.CounterVec
	BytesEchoed       *prometheus.CounterVec
	RateLimited       prometheus.Counter
}

// NewRegistry creates a registry with the echo server metrics and the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "echo",
			Name:      "connections_active",
			Help:      "Number of open websocket connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "echo",
			Name:      "connections_total",
			Help:      "Number of accepted websocket connections.",
		}),
		MessagesEchoed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "echo",
			Name:      "messages_total",
			Help:      "Number of messages echoed back, by frame type.",
		}, []string{"type"}),
		BytesEchoed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "echo",
			Name:      "bytes_total",
			Help:      "Number of payload bytes echoed back, by frame type.",
		}, []string{"type"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "echo",
			Name:      "rate_limited_total",
			Help:      "Number of messages delayed by the per-connection rate limit.",
		}),
	}

	reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.MessagesEchoed,
		r.BytesEchoed,
		r.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns the /metrics handler of r.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ConnectionOpened records an accepted connection.
func (r *Registry) ConnectionOpened() {
	r.ConnectionsActive.Inc()
	r.ConnectionsTotal.Inc()
}

// ConnectionClosed records a finished connection.
func (r *Registry) ConnectionClosed() {
	r.ConnectionsActive.Dec()
}

// MessageEchoed records one echoed message of size bytes.
func (r *Registry) MessageEchoed(frameType string, size int) {
	r.MessagesEchoed.WithLabelValues(frameType).Inc()
	r.BytesEchoed.WithLabelValues(frameType).Add(float64(size))
}

// MessageDelayed records a message held back by the rate limiter.
func (r *Registry) MessageDelayed() {
	r.RateLimited.Inc()
}
