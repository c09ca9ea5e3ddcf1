package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Thumbnail outcomes ---
	for _, outcome := range []string{"created", "skipped", "errored"} {
		ThumbnailOutcomesTotal.WithLabelValues(outcome)
		ThumbnailLastRunFiles.WithLabelValues(outcome)
	}

	// --- Thumbnail engines ---
	for _, engine := range []string{"imaging", "vips", "fake"} {
		ThumbnailGenerationDuration.WithLabelValues(engine)
	}

	// --- Source decode by format ---
	for _, format := range []string{"jpeg", "png", "gif", "webp", "avif", "unknown"} {
		ThumbnailDecodeByFormat.WithLabelValues(format)
	}

	// --- Manifest write statuses ---
	for _, status := range []string{"written", "skipped_empty", "error"} {
		ManifestWritesTotal.WithLabelValues(status)
	}

	// --- Filesystem operation metrics (per volume × operation) ---
	volumes := []string{"images", "thumbs", "output", "index", "unknown"}
	fsOps := []string{"read", "write", "stat", "readdir", "render_thumbnail", "write_manifest"}

	for _, vol := range volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
	}

	// --- Filesystem retry metrics (per retry-operation × volume) ---
	retryOps := []string{"stat", "open", "readdir"}

	for _, op := range retryOps {
		for _, vol := range volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}

	// --- Index database query operations ---
	for _, op := range []string{"initialize_schema", "upsert_file", "set_file_tags",
		"delete_missing_files", "record_run", "get_stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	// --- Watcher event types ---
	for _, ev := range []string{"create", "write", "remove", "rename", "chmod"} {
		WatcherEventsTotal.WithLabelValues(ev)
	}
}
