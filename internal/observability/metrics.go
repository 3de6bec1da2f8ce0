package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gadgetd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests against the admin surface.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gadgetd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	protocolRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gadgetd",
			Subsystem: "protocol",
			Name:      "requests_total",
			Help:      "Line-protocol requests by verb and outcome.",
		},
		[]string{"verb", "status"},
	)
	protocolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gadgetd",
			Subsystem: "protocol",
			Name:      "request_duration_seconds",
			Help:      "Line-protocol dispatch duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"verb", "status"},
	)
	protocolConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gadgetd",
			Subsystem: "protocol",
			Name:      "open_connections",
			Help:      "Currently open protocol connections.",
		},
	)
	gadgetEffects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gadgetd",
			Subsystem: "gadget",
			Name:      "effects_total",
			Help:      "Effects emitted by gadgets, by gadget kind and effect kind.",
		},
		[]string{"kind", "effect"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			protocolRequests,
			protocolDuration,
			protocolConnections,
			gadgetEffects,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordProtocolRequest(verb string, ok bool, duration time.Duration) {
	RegisterMetrics()
	status := "ok"
	if !ok {
		status = "error"
	}
	protocolRequests.WithLabelValues(verb, status).Inc()
	protocolDuration.WithLabelValues(verb, status).Observe(duration.Seconds())
}

func ConnectionOpened() {
	RegisterMetrics()
	protocolConnections.Inc()
}

func ConnectionClosed() {
	RegisterMetrics()
	protocolConnections.Dec()
}

func RecordEffect(kind, effect string) {
	RegisterMetrics()
	gadgetEffects.WithLabelValues(kind, effect).Inc()
}
