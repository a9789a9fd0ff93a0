// Package metrics provides Prometheus metrics for the Vitalis assessment service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// percentageBuckets splits the 0-100 score range into deciles.
var percentageBuckets = prometheus.LinearBuckets(10, 10, 10) //nolint:gochecknoglobals // static buckets

// Manager manages all Prometheus metrics for the assessment service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Assessment metrics
	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionsReset     prometheus.Counter
	sessionsExpired   prometheus.Counter
	activeSessions    prometheus.Gauge
	answersRecorded   prometheus.Counter
	answerRejections  *prometheus.CounterVec
	resultsByCategory *prometheus.CounterVec
	scorePercentage   prometheus.Histogram

	// Result queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Result store metrics
	storeWrites   prometheus.Counter
	storeErrors   *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	storedResults prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vitalis",
		subsystem:        "assessment",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.sessionsStarted = auto.NewCounter(m.counterOpts("sessions_started_total", "Assessment sessions started"))
	m.sessionsCompleted = auto.NewCounter(m.counterOpts("sessions_completed_total", "Assessment sessions that reached the completed state"))
	m.sessionsReset = auto.NewCounter(m.counterOpts("sessions_reset_total", "Assessment sessions reset by the user"))
	m.sessionsExpired = auto.NewCounter(m.counterOpts("sessions_expired_total", "Idle assessment sessions evicted"))
	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions", "Sessions currently held in memory"))
	m.answersRecorded = auto.NewCounter(m.counterOpts("answers_recorded_total", "Answers recorded, re-answers included"))
	m.answerRejections = auto.NewCounterVec(
		m.counterOpts("rejections_total", "Rejected session operations by reason"),
		[]string{"reason"},
	)
	m.resultsByCategory = auto.NewCounterVec(
		m.counterOpts("results_total", "Completed assessments by result category"),
		[]string{"category"},
	)
	m.scorePercentage = auto.NewHistogram(m.histogramOpts(
		"score_percentage", "Distribution of final score percentages", percentageBuckets))

	m.queueSize = auto.NewGauge(m.gaugeOpts("result_queue_size", "Results waiting to be stored"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("result_queue_capacity", "Capacity of the result queue"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("result_queue_utilization", "Result queue fill ratio (0-1)"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("result_queue_enqueued_total", "Results enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("result_queue_dequeued_total", "Results dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("result_queue_enqueue_errors_total", "Results rejected by the queue"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Result workers running"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Time to store one result", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Results the workers failed to store"))

	m.storeWrites = auto.NewCounter(m.counterOpts("store_writes_total", "Results written to the result store"))
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Result store failures by operation"),
		[]string{"op"},
	)
	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Result store latency by operation", m.histogramBuckets),
		[]string{"op"},
	)
	m.storedResults = auto.NewGauge(m.gaugeOpts("stored_results", "Results held by the result store"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets))
}

// Assessment metrics.

func (m *Manager) RecordSessionStarted() { m.sessionsStarted.Inc() }
func (m *Manager) RecordSessionReset() { m.sessionsReset.Inc() }
func (m *Manager) RecordSessionsExpired(n int) { m.sessionsExpired.Add(float64(n)) }
func (m *Manager) UpdateActiveSessions(n int) { m.activeSessions.Set(float64(n)) }
func (m *Manager) RecordAnswer() { m.answersRecorded.Inc() }
func (m *Manager) RecordRejection(reason string) {
	m.answerRejections.WithLabelValues(reason).Inc()
}

// RecordCompletion counts a completed session and observes its result.
func (m *Manager) RecordCompletion(category string, percentage int) {
	m.sessionsCompleted.Inc()
	m.resultsByCategory.WithLabelValues(category).Inc()
	m.scorePercentage.Observe(float64(percentage))
}

// Queue metrics.

func (m *Manager) UpdateQueueCapacity(n int) { m.queueCapacity.Set(float64(n)) }

// UpdateQueueSize sets the queue length and its utilization.
func (m *Manager) UpdateQueueSize(size, capacity int) {
	m.queueSize.Set(float64(size))
	if capacity > 0 {
		m.queueUtilization.Set(float64(size) / float64(capacity))
	}
}
func (m *Manager) RecordEnqueue() { m.queueEnqueued.Inc() }
func (m *Manager) RecordDequeue() { m.queueDequeued.Inc() }
func (m *Manager) RecordEnqueueError() { m.queueEnqueueErrors.Inc() }

// Worker metrics.

func (m *Manager) UpdateWorkerCount(n int) { m.workerCount.Set(float64(n)) }
func (m *Manager) RecordWorkerLatency(ms float64) {
	m.workerProcessingLatency.Observe(ms)
}
func (m *Manager) RecordWorkerError() { m.workerErrors.Inc() }

// Store metrics.

func (m *Manager) RecordStoreWrite() { m.storeWrites.Inc() }
func (m *Manager) RecordStoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}
func (m *Manager) RecordStoreLatency(op string, ms float64) {
	m.storeLatency.WithLabelValues(op).Observe(ms)
}
func (m *Manager) UpdateStoredResults(n int) { m.storedResults.Set(float64(n)) }

// HTTP metrics.

func (m *Manager) RecordHTTPRequest(endpoint, method, status string, ms float64) {
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// Error metrics.

func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.systemMemoryUsage.Set(float64(bytes)) }
func (m *Manager) UpdateSystemGoroutineCount(n int) { m.systemGoroutineCount.Set(float64(n)) }
func (m *Manager) RecordSystemGCPauseTime(ms float64) { m.systemGCPauseTime.Observe(ms) }

// Package-level helpers forward to the global manager.

func RecordSessionStarted() { globalManager.RecordSessionStarted() }
func RecordSessionReset() { globalManager.RecordSessionReset() }
func RecordSessionsExpired(n int) { globalManager.RecordSessionsExpired(n) }
func UpdateActiveSessions(n int) { globalManager.UpdateActiveSessions(n) }
func RecordAnswer() { globalManager.RecordAnswer() }
func RecordRejection(reason string) { globalManager.RecordRejection(reason) }
func RecordCompletion(category string, percentage int) {
	globalManager.RecordCompletion(category, percentage)
}
func UpdateQueueCapacity(n int) { globalManager.UpdateQueueCapacity(n) }
func UpdateQueueSize(size, capacity int) { globalManager.UpdateQueueSize(size, capacity) }
func RecordEnqueue() { globalManager.RecordEnqueue() }
func RecordDequeue() { globalManager.RecordDequeue() }
func RecordEnqueueError() { globalManager.RecordEnqueueError() }
func UpdateWorkerCount(n int) { globalManager.UpdateWorkerCount(n) }
func RecordWorkerLatency(ms float64) { globalManager.RecordWorkerLatency(ms) }
func RecordWorkerError() { globalManager.RecordWorkerError() }
func RecordStoreWrite() { globalManager.RecordStoreWrite() }
func RecordStoreError(op string) { globalManager.RecordStoreError(op) }
func RecordStoreLatency(op string, ms float64) {
	globalManager.RecordStoreLatency(op, ms)
}
func UpdateStoredResults(n int) { globalManager.UpdateStoredResults(n) }
func RecordHTTPRequest(endpoint, method, status string, ms float64) {
	globalManager.RecordHTTPRequest(endpoint, method, status, ms)
}
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(n int) { globalManager.UpdateSystemGoroutineCount(n) }
func RecordSystemGCPauseTime(ms float64) { globalManager.RecordSystemGCPauseTime(ms) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
