package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_archive_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_archive_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_archive_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog metrics
var (
	CatalogQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_archive_catalog_queries_total",
			Help: "Total number of catalog queries",
		},
		[]string{"operation", "status"},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_archive_catalog_query_duration_seconds",
			Help:    "Catalog query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Blob store metrics
var (
	BlobOpTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_archive_blob_operations_total",
			Help: "Total number of blob store operations",
		},
		[]string{"operation", "status"},
	)

	BlobOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_archive_blob_operation_duration_seconds",
			Help:    "Blob store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	BlobBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_archive_blob_bytes_written_total",
			Help: "Total bytes written to the blob store",
		},
	)
)

// Ingest metrics
var (
	IngestItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_archive_ingest_items_total",
			Help: "Total number of ingested items by terminal status",
		},
		[]string{"status"},
	)

	IngestBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_archive_ingest_batches_total",
			Help: "Total number of ingest batches processed",
		},
	)
)

// RecordCatalogQuery records one catalog query outcome.
func RecordCatalogQuery(operation string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CatalogQueryTotal.WithLabelValues(operation, status).Inc()
	CatalogQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordBlobOp records one blob store operation outcome.
func RecordBlobOp(operation string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	BlobOpTotal.WithLabelValues(operation, status).Inc()
	BlobOpDuration.WithLabelValues(operation).Observe(seconds)
}
