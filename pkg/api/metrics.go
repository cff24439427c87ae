package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssargent/survex3d/pkg/img3d"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. A nil *Metrics records
// nothing.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decode metrics
	decodeOperationsTotal *prometheus.CounterVec
	decodeDuration        prometheus.Histogram
	decodedRecordsTotal   *prometheus.CounterVec
	unknownOpcodesTotal   prometheus.Counter

	// Archive metrics
	archiveOperationsTotal *prometheus.CounterVec
	surveysArchived        prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survex3d_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "survex3d_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "survex3d_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		decodeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survex3d_decode_operations_total",
				Help: "Total number of 3D files decoded",
			},
			[]string{"status"},
		),

		decodeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "survex3d_decode_duration_seconds",
				Help:    "Time spent decoding one 3D file",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),

		decodedRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survex3d_decoded_records_total",
				Help: "Total number of records decoded, by kind",
			},
			[]string{"kind"},
		),

		unknownOpcodesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "survex3d_unknown_opcodes_total",
				Help: "Total number of unknown opcodes seen while decoding",
			},
		),

		archiveOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survex3d_archive_operations_total",
				Help: "Total number of archive operations",
			},
			[]string{"operation", "status"},
		),

		surveysArchived: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "survex3d_surveys_archived",
				Help: "Number of surveys in the archive",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survex3d_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records one decode attempt and the records it produced
func (m *Metrics) RecordDecode(records img3d.Records, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.decodeOperationsTotal.WithLabelValues(statusLabel(err == nil)).Inc()
	m.decodeDuration.Observe(duration.Seconds())
	for _, rec := range records {
		m.decodedRecordsTotal.WithLabelValues(rec.Kind().String()).Inc()
		if rec.Kind() == img3d.KindUnknown {
			m.unknownOpcodesTotal.Inc()
		}
	}
}

// RecordArchiveOperation records an archive operation
func (m *Metrics) RecordArchiveOperation(operation string, success bool) {
	if m == nil {
		return
	}
	m.archiveOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
}

// UpdateArchiveStats updates archive statistics
func (m *Metrics) UpdateArchiveStats(surveys int) {
	if m == nil {
		return
	}
	m.surveysArchived.Set(float64(surveys))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	if m == nil {
		return
	}
	m.authRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
