// Package metrics provides Prometheus instrumentation for the gallery indexer.
//
// This package defines and exposes various metrics that can be scraped by
// Prometheus to monitor the behavior of the indexer. All metrics are prefixed
// with "gallery_indexer_" to avoid naming collisions with other applications.
//
// The families cover scan runs, thumbnail generation outcomes, manifest
// writes, the optional run index database, the preview HTTP server, the
// watch-mode filesystem watcher, filesystem retries on network mounts, and
// memory backpressure.
//
// InitializeMetrics pre-populates known label combinations so every series
// is exported from the first scrape. The Collector periodically refreshes
// gauges that mirror index database totals while the preview server runs.
package metrics
