package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Media-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Upload outcomes by entity kind; status is "success" or a rejection / failure class.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "uploads_total",
			Help:      "Total image uploads by outcome",
		},
		[]string{"kind", "status"},
	)

	// Stored bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes written to storage",
		},
		[]string{"kind"},
	)

	// Compression achieved by the transform engine
	CompressionRatio = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "compression_ratio_percent",
			Help:      "Size reduction achieved by image optimization, in percent",
			Buckets:   []float64{-50, 0, 10, 25, 50, 75, 90, 99},
		},
		[]string{"format"},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "storage_operations_total",
			Help:      "Total storage backend operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "storage_duration_seconds",
			Help:      "Storage operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"backend", "operation"},
	)

	// Best-effort cleanup outcomes
	CleanupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "cleanups_total",
			Help:      "Image cleanup attempts by result",
		},
		[]string{"backend", "result"},
	)

	// Replace saga terminal states
	ReplacementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoo",
			Subsystem: "media_api",
			Name:      "replacements_total",
			Help:      "Entity image replacements by final state",
		},
		[]string{"kind", "state"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records an upload outcome
func RecordUpload(kind, status string, bytes int64) {
	UploadsTotal.WithLabelValues(kind, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(kind).Add(float64(bytes))
	}
}

// RecordOptimization records the compression ratio of one encoded variant
func RecordOptimization(format string, ratio float64) {
	CompressionRatio.WithLabelValues(format).Observe(ratio)
}

// RecordStorageOperation records a storage backend call
func RecordStorageOperation(backend, operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	StorageDuration.WithLabelValues(backend, operation).Observe(durationSec)
}

// RecordCleanup records the result of a best-effort delete
func RecordCleanup(backend, result string) {
	CleanupsTotal.WithLabelValues(backend, result).Inc()
}

// RecordReplacement records the state a replace or remove operation ended in
func RecordReplacement(kind, state string) {
	ReplacementsTotal.WithLabelValues(kind, state).Inc()
}
