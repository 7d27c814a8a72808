package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Surfaces label where a report was requested from.
const (
	SurfaceCLI = "cli"
	SurfaceWeb = "web"
	SurfaceAPI = "api"
)

// Report metrics
var (
	// ReportsGenerated counts generated reports
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikereport_reports_generated_total",
			Help: "Total number of reports generated",
		},
		[]string{"selection", "surface", "status"},
	)

	// ReportDuration tracks how long report generation takes
	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikereport_report_duration_seconds",
			Help:    "Duration of report generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"surface"},
	)

	// DatasetRecords is the number of records in each view of the loaded dataset
	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bikereport_dataset_records",
			Help: "Number of records in the loaded dataset by view",
		},
		[]string{"view"},
	)
)

// HTTP metrics
var (
	// HTTPRequests counts dashboard and API requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikereport_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikereport_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Store metrics
var (
	// DBQueriesTotal tracks the total number of dataset store operations
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikereport_db_queries_total",
			Help: "Total number of dataset store operations",
		},
		[]string{"operation", "status"},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bikereport_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordReport records one report generation
func RecordReport(selection, surface string, duration time.Duration, err error) {
	ReportsGenerated.WithLabelValues(selection, surface, status(err)).Inc()
	ReportDuration.WithLabelValues(surface).Observe(duration.Seconds())
}

// SetDatasetRecords publishes the size of the loaded views
func SetDatasetRecords(daily, hourly int) {
	DatasetRecords.WithLabelValues("daily").Set(float64(daily))
	DatasetRecords.WithLabelValues("hourly").Set(float64(hourly))
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(route string, code int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordDBQuery records one dataset store operation
func RecordDBQuery(operation string, err error) {
	DBQueriesTotal.WithLabelValues(operation, status(err)).Inc()
}
