// Package metrics provides Prometheus metrics for the itemd service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Item endpoint metrics
	itemsAccepted prometheus.Counter
	itemsRejected prometheus.Counter

	// Conversion endpoint metrics
	conversions        *prometheus.CounterVec
	conversionFailures *prometheus.CounterVec
	uploadBytes        prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
	uptimeSeconds        prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to keep default Go collectors out of /healthz output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with defaults overridden by opts.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "itemd",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// uploadSizeBuckets covers payloads from 1 KiB to 16 MiB.
var uploadSizeBuckets = prometheus.ExponentialBuckets(1024, 4, 8) //nolint:gochecknoglobals

func (m *Manager) initializeMetrics() {
	if !m.enabled {
		return
	}

	factory := promauto.With(m.registry)

	m.itemsAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "items_accepted_total",
		Help:      "Items that passed validation and were echoed back.",
	})
	m.itemsRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "items_rejected_total",
		Help:      "Item requests rejected by schema validation.",
	})

	m.conversions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conversions_total",
		Help:      "Successful document conversions by input format.",
	}, []string{"format"})
	m.conversionFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conversion_failures_total",
		Help:      "Failed document conversions by reason.",
	}, []string{"reason"})
	m.uploadBytes = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_bytes",
		Help:      "Size distribution of uploaded documents.",
		Buckets:   uploadSizeBuckets,
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
	m.errorsByEndpoint = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type.",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current heap allocation in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines.",
	})
	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_ms",
		Help:      "Average GC pause time in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.uptimeSeconds = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uptime_seconds",
		Help:      "Seconds since the service started.",
	})
}

// RecordItemAccepted increments the accepted items counter.
func RecordItemAccepted() {
	if globalManager.enabled {
		globalManager.itemsAccepted.Inc()
	}
}

// RecordItemRejected increments the rejected items counter.
func RecordItemRejected() {
	if globalManager.enabled {
		globalManager.itemsRejected.Inc()
	}
}

// RecordConversion increments the conversion counter for a format.
func RecordConversion(format string) {
	if globalManager.enabled {
		globalManager.conversions.WithLabelValues(format).Inc()
	}
}

// RecordConversionFailure increments the conversion failure counter.
func RecordConversionFailure(reason string) {
	if globalManager.enabled {
		globalManager.conversionFailures.WithLabelValues(reason).Inc()
	}
}

// ObserveUploadSize records the size of an uploaded document.
func ObserveUploadSize(bytes int64) {
	if globalManager.enabled {
		globalManager.uploadBytes.Observe(float64(bytes))
	}
}

// RecordHTTPRequest counts a completed HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration records the duration of an HTTP request.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
	}
}

// RecordErrorByEndpoint counts an error response on an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records the average GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// UpdateUptime sets the uptime gauge.
func UpdateUptime(seconds float64) {
	if globalManager.enabled {
		globalManager.uptimeSeconds.Set(seconds)
	}
}

// GetRegistry exposes the custom registry for the metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
