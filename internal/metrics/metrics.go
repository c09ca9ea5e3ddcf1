package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_scan_runs_total",
			Help: "Total number of scan runs",
		},
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_scan_last_run_timestamp",
			Help: "Unix timestamp of the last completed scan run",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_scan_last_run_duration_seconds",
			Help: "Duration of the last scan run in seconds",
		},
	)

	ScanFilesMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_scan_files_matched_total",
			Help: "Total number of files matching the extension allow-list",
		},
	)

	ScanDirectoriesWalked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_scan_directories_walked_total",
			Help: "Total number of directories visited during scans",
		},
	)

	ScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_scan_errors_total",
			Help: "Total number of directory read errors during scans",
		},
	)
)

// Tag derivation metrics
var (
	TagsDerivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_tags_derived_total",
			Help: "Total number of tags derived from filenames",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_thumbnail_outcomes_total",
			Help: "Total number of thumbnail outcomes by kind",
		},
		[]string{"outcome"}, // "created", "skipped", "errored"
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_indexer_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"engine"},
	)

	ThumbnailDecodeByFormat = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_thumbnail_decode_by_format_total",
			Help: "Total number of source images decoded by detected format",
		},
		[]string{"format"},
	)

	ThumbnailLastRunFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_thumbnail_last_run_files",
			Help: "Number of files in the last run by thumbnail outcome",
		},
		[]string{"outcome"},
	)
)

// Manifest metrics
var (
	ManifestWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_manifest_writes_total",
			Help: "Total number of manifest write attempts by status",
		},
		[]string{"status"}, // "written", "skipped_empty", "error"
	)

	ManifestRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_manifest_records",
			Help: "Number of records in the last written manifest",
		},
	)

	ManifestSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_manifest_size_bytes",
			Help: "Size of the last written manifest in bytes",
		},
	)
)

// Run index database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_db_queries_total",
			Help: "Total number of index database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_indexer_db_query_duration_seconds",
			Help:    "Index database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBFilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_db_files_total",
			Help: "Number of file rows in the run index database",
		},
	)

	DBTagsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_db_tags_total",
			Help: "Number of distinct tags in the run index database",
		},
	)
)

// HTTP metrics (preview server)
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_indexer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Watcher metrics (watch mode)
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_watcher_watched_directories",
			Help: "Number of directories currently being watched",
		},
	)

	WatcherRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_watcher_rebuilds_total",
			Help: "Total number of pipeline re-runs triggered by the watcher",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_indexer_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_filesystem_operation_errors_total",
			Help: "Total number of filesystem operation errors",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_indexer_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_indexer_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_memory_usage_ratio",
			Help: "Current heap allocation as a fraction of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_memory_paused",
			Help: "Whether processing is paused due to memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_indexer_memory_gc_pauses_total",
			Help: "Total number of forced GC cycles due to memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_indexer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
