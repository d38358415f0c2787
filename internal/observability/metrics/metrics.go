package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "backtest_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	uploadRequests *prometheus.CounterVec
	uploadErrors   *prometheus.CounterVec
	uploadLatency  *prometheus.HistogramVec

	exportRequests *prometheus.CounterVec
	exportLatency  *prometheus.HistogramVec
)

// Init registers observability metrics for the upload pipeline.
func Init() {
	registerOnce.Do(func() {
		uploadRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_requests_total",
				Help: "Total upload requests by result",
			},
			[]string{"result"},
		)
		uploadErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_validation_errors_total",
				Help: "Total upload validation findings by code",
			},
			[]string{"code"},
		)
		uploadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upload_latency_seconds",
				Help:    "Upload pipeline latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_requests_total",
				Help: "Total report export requests by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			uploadRequests,
			uploadErrors,
			uploadLatency,
			exportRequests,
			exportLatency,
		)
	})
}

// ObserveUpload records upload request duration and result.
func ObserveUpload(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if uploadRequests != nil {
		uploadRequests.WithLabelValues(result).Inc()
	}
	if uploadLatency != nil {
		uploadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncValidationError increments the finding counter for one error code.
func IncValidationError(code string) {
	if code == "" {
		code = "unknown"
	}
	if uploadErrors != nil {
		uploadErrors.WithLabelValues(code).Inc()
	}
}

// ObserveExport records report export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportRequests != nil {
		exportRequests.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess  = resultSuccess
	ResultError    = resultError
	ResultRejected = "rejected"
)
