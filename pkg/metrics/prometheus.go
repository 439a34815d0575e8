// Package metrics provides Prometheus metrics for the shotform analysis service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Analysis metrics
	analyses         *prometheus.CounterVec
	analysisLatency  prometheus.Histogram
	formScore        prometheus.Histogram
	formCategory     *prometheus.CounterVec
	flawsDetected    *prometheus.CounterVec
	matchSimilarity  prometheus.Histogram
	framesSkipped    *prometheus.CounterVec
	jobsDuplicate    prometheus.Counter
	jobsCompleted    *prometheus.CounterVec
	leaderboardMoves prometheus.Counter

	// Queue metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Repository metrics
	repositoryAthletes      prometheus.Gauge
	repositoryResults       prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

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

// NewManager creates a metrics manager. Collectors register on the default
// registerer unless WithPrometheusRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shotform",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place to read every series
	scoreBuckets := prometheus.LinearBuckets(0, 10, 11)
	similarityBuckets := prometheus.LinearBuckets(50, 5, 10)
	auto := promauto.With(m.registry)

	m.analyses = m.counterVec("analyses_total", "Analyses by outcome (ok, unavailable, error)", "outcome")
	m.analysisLatency = m.histogram("analysis_latency_milliseconds", "Pipeline latency per frame in milliseconds", m.histogramBuckets)
	m.formScore = m.histogram("form_score", "Distribution of overall form scores", scoreBuckets)
	m.formCategory = m.counterVec("form_category_total", "Analyses by form category", "category")
	m.flawsDetected = m.counterVec("flaws_detected_total", "Detected flaws by severity", "severity")
	m.matchSimilarity = m.histogram("match_similarity", "Similarity score of the best corpus match", similarityBuckets)
	m.framesSkipped = m.counterVec("frames_skipped_total", "Job frames skipped by reason", "reason")
	m.jobsDuplicate = m.counter("jobs_duplicate_total", "Duplicate job submissions")
	m.jobsCompleted = m.counterVec("jobs_completed_total", "Finished jobs by status", "status")
	m.leaderboardMoves = m.counter("leaderboard_updates_total", "Leaderboard best-score improvements")

	m.queueSize = m.gauge("queue_size", "Current number of queued jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs accepted onto the queue")
	m.queueDequeued = m.counter("queue_dequeued_total", "Jobs handed to workers")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Rejected enqueue attempts")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", m.histogramBuckets)

	m.workerActiveCount = m.gauge("worker_active_count", "Number of running workers")
	m.workerMessagesPerSecond = m.gauge("worker_jobs_per_second", "Jobs processed per second across the pool")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Per-job processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Worker processing errors")

	m.repositoryAthletes = m.gauge("repository_athletes", "Athletes on the leaderboard")
	m.repositoryResults = m.gauge("repository_results", "Stored job results")
	m.repositoryUpdateLatency = m.histogram("repository_update_latency_milliseconds", "Leaderboard update latency in milliseconds", m.histogramBuckets)
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Leaderboard query latency in milliseconds", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "error_latency_milliseconds",
		Help:      "Time spent before failing, by component and error type",
		Buckets:   m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap allocation in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Analysis Metrics Functions.

// RecordAnalysis counts one analysis by outcome.
func RecordAnalysis(outcome string) {
	globalManager.analyses.WithLabelValues(outcome).Inc()
}

// RecordAnalysisLatency records pipeline latency in milliseconds.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// RecordFormScore records an overall score and its category.
func RecordFormScore(score int, category string) {
	globalManager.formScore.Observe(float64(score))
	globalManager.formCategory.WithLabelValues(category).Inc()
}

// RecordFlawDetected counts one flaw by severity.
func RecordFlawDetected(severity string) {
	globalManager.flawsDetected.WithLabelValues(severity).Inc()
}

// RecordMatchSimilarity records the best match score.
func RecordMatchSimilarity(score int) {
	globalManager.matchSimilarity.Observe(float64(score))
}

// RecordFrameSkipped counts a skipped job frame.
func RecordFrameSkipped(reason string) {
	globalManager.framesSkipped.WithLabelValues(reason).Inc()
}

// RecordJobDuplicate counts a duplicate job submission.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordJobCompleted counts a finished job by status.
func RecordJobCompleted(status string) {
	globalManager.jobsCompleted.WithLabelValues(status).Inc()
}

// RecordLeaderboardUpdate counts a best-score improvement.
func RecordLeaderboardUpdate() {
	globalManager.leaderboardMoves.Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the pool throughput.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records per-job latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Repository Metrics Functions.

// UpdateRepositoryAthletes sets the number of ranked athletes.
func UpdateRepositoryAthletes(count int) {
	globalManager.repositoryAthletes.Set(float64(count))
}

// UpdateRepositoryResults sets the number of stored job results.
func UpdateRepositoryResults(count int) {
	globalManager.repositoryResults.Set(float64(count))
}

// RecordRepositoryUpdateLatency records leaderboard update latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records leaderboard query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records how long a failing operation ran before it failed.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Totals sums every counter family in the custom registry whose name has
// one of the given suffixes (for example "analyses_total"), keyed by suffix.
func Totals(suffixes ...string) (map[string]float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGather, err)
	}
	prefix := globalManager.namespace + "_" + globalManager.subsystem + "_"
	out := make(map[string]float64, len(suffixes))
	for _, s := range suffixes {
		out[s] = 0
	}
	for _, f := range families {
		name := f.GetName()
		if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		key := name[len(prefix):]
		if _, want := out[key]; !want {
			continue
		}
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				out[key] += c.GetValue()
			}
		}
	}
	return out, nil
}
