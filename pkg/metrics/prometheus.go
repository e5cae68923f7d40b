// Package metrics provides Prometheus metrics for the numerox service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Manager owns the Prometheus collectors of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Prediction table
	insertsTotal     prometheus.Counter
	insertedRows     prometheus.Counter
	insertRejections *prometheus.CounterVec
	modelsTotal      prometheus.Gauge
	rowsTotal        prometheus.Gauge

	// Analytics
	analyticsLatency *prometheus.HistogramVec
	analyticsErrors  *prometheus.CounterVec

	// Archives and datasets
	archiveLoads *prometheus.CounterVec
	datasetRows  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// customRegistry keeps Go runtime collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "numerox",
		subsystem:        "predictions",
		histogramBuckets: defaultBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.insertsTotal = auto.NewCounter(m.counterOpts("inserts_total", "Prediction batches merged into the table"))
	m.insertedRows = auto.NewCounter(m.counterOpts("inserted_rows_total", "Prediction rows carried by accepted batches"))
	m.insertRejections = auto.NewCounterVec(m.counterOpts("insert_rejections_total", "Prediction batches refused, by reason"), []string{"reason"})
	m.modelsTotal = auto.NewGauge(m.gaugeOpts("models", "Models currently held in the table"))
	m.rowsTotal = auto.NewGauge(m.gaugeOpts("rows", "Rows in the identifier universe of the table"))

	m.analyticsLatency = auto.NewHistogramVec(m.histogramOpts("analytics_latency_milliseconds", "Analytics call latency in milliseconds"), []string{"operation"})
	m.analyticsErrors = auto.NewCounterVec(m.counterOpts("analytics_errors_total", "Failed analytics calls"), []string{"operation"})

	m.archiveLoads = auto.NewCounterVec(m.counterOpts("archive_loads_total", "Prediction archives read, by encoding"), []string{"encoding"})
	m.datasetRows = auto.NewGauge(m.gaugeOpts("dataset_rows", "Labeled rows in the loaded dataset"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
}

// RecordInsert counts an accepted batch of rows.
func (m *Manager) RecordInsert(rows int) {
	m.insertsTotal.Inc()
	m.insertedRows.Add(float64(rows))
}

// RecordInsertRejected counts a refused batch.
func (m *Manager) RecordInsertRejected(reason string) {
	m.insertRejections.WithLabelValues(reason).Inc()
}

// UpdateTableShape sets the model and row gauges.
func (m *Manager) UpdateTableShape(rows, models int) {
	m.rowsTotal.Set(float64(rows))
	m.modelsTotal.Set(float64(models))
}

// RecordAnalytics observes the latency of an analytics call.
func (m *Manager) RecordAnalytics(operation string, latencyMs float64, err error) {
	m.analyticsLatency.WithLabelValues(operation).Observe(latencyMs)
	if err != nil {
		m.analyticsErrors.WithLabelValues(operation).Inc()
	}
}

// RecordArchiveLoad counts an archive read with the given encoding.
func (m *Manager) RecordArchiveLoad(encoding string) {
	m.archiveLoads.WithLabelValues(encoding).Inc()
}

// UpdateDatasetRows sets the dataset size gauge.
func (m *Manager) UpdateDatasetRows(rows int) {
	m.datasetRows.Set(float64(rows))
}

// RecordHTTPRequest counts an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// Package-level recorders on the global manager.

// RecordInsert counts an accepted batch of rows.
func RecordInsert(rows int) { globalManager.RecordInsert(rows) }

// RecordInsertRejected counts a refused batch.
func RecordInsertRejected(reason string) { globalManager.RecordInsertRejected(reason) }

// UpdateTableShape sets the model and row gauges.
func UpdateTableShape(rows, models int) { globalManager.UpdateTableShape(rows, models) }

// RecordAnalytics observes the latency of an analytics call.
func RecordAnalytics(operation string, latencyMs float64, err error) {
	globalManager.RecordAnalytics(operation, latencyMs, err)
}

// RecordArchiveLoad counts an archive read with the given encoding.
func RecordArchiveLoad(encoding string) { globalManager.RecordArchiveLoad(encoding) }

// UpdateDatasetRows sets the dataset size gauge.
func UpdateDatasetRows(rows int) { globalManager.UpdateDatasetRows(rows) }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// GetRegistry returns the registry the global manager records on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
