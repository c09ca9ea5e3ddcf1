// Gallery-indexer scans a directory tree of images and produces a
// static JSON manifest describing every image it finds: its path, a
// timestamp, filename-derived tags, and optionally the path of a
// generated thumbnail. The manifest is what a static gallery page
// loads; the indexer itself stores nothing else unless the run index
// is enabled.
//
// # Application Lifecycle
//
// A run follows a fixed sequence:
//
//  1. Environment loading: .env via godotenv, overridden by real
//     environment variables, overridden by command-line flags
//  2. Memory configuration: sets GOMEMLIMIT from MEMORY_LIMIT when the
//     container runtime provides one
//  3. Configuration loading: validates directories, extensions, and
//     thumbnail settings, logging each section as it goes
//  4. Component initialization:
//     - Thumbnail engine: imaging (pure Go) or vips (libvips, CGO)
//     - Tag deriver: filename tokenization rules
//     - Run index: optional SQLite database of what each run saw
//     - Memory monitor: pauses thumbnail workers near the limit
//  5. Index run: scan, thumbnail generation on a worker pool, manifest
//     write, run-index update
//  6. Optional long-running modes: -watch re-runs the pipeline when
//     the image tree changes; -serve previews the gallery over HTTP
//  7. Graceful shutdown: SIGINT/SIGTERM cancels in-flight runs and
//     drains the HTTP server with a 30s timeout
//
// With neither -serve nor -watch the process exits after the summary,
// which makes it usable from cron or CI.
//
// # Manifest Contract
//
// Every run rebuilds the manifest from the filesystem alone. Records
// are ordered by path, dates are UTC, and tags come from the filename
// at scan time, so editing the manifest by hand does not survive the
// next run. The previous manifest stays intact until the new one is
// complete: the file is written to a temporary sibling and renamed
// over the old one.
//
// # HTTP Preview
//
// With -serve the binary stays up after indexing and serves the
// manifest, the image tree, and the thumbnail tree at the same
// relative URLs the manifest records. Health probes (/healthz, /livez,
// /readyz), run statistics (/api/stats), manual reindexing
// (/api/reindex), and Prometheus metrics (/metrics) ride along for
// deployments that keep the preview running.
//
// # Environment Variables
//
// Configuration is primarily through environment variables; each flag
// documented in -help overrides its matching variable:
//
//   - IMAGE_DIR: image tree to index (default: images)
//   - THUMB_DIR: thumbnail output tree (default: thumbs)
//   - OUTPUT_FILE: manifest path (default: images.json)
//   - EXTENSIONS: comma-separated extensions to index
//   - TAGS_ENABLED, TAG_SEPARATORS, FILTER_WEAK_TAGS: tag derivation
//   - THUMBNAILS_ENABLED, THUMB_MAX_DIM, THUMB_QUALITY, FORCE_JPG,
//     OVERWRITE_THUMBS, THUMBNAIL_ENGINE, THUMBNAIL_WORKERS: thumbnails
//   - DATE_SOURCE: mtime (default) or exif
//   - INDEX_DB: run-index SQLite path (empty disables it)
//   - SERVE, PORT, METRICS_ENABLED: preview server
//   - WATCH, WATCH_DEBOUNCE: watch mode
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: memory backpressure
//   - LOG_LEVEL, DEBUG: logging verbosity
//
// # Build Requirements
//
// The default build is pure Go. Two features need CGO:
//
//   - vips thumbnail engine: libvips headers and library
//   - run index: mattn/go-sqlite3
//
// # Related Packages
//
//   - [gallery-indexer/internal/scanner]: image tree walking
//   - [gallery-indexer/internal/tags]: filename tag derivation
//   - [gallery-indexer/internal/thumbs]: thumbnail engines
//   - [gallery-indexer/internal/manifest]: manifest records and writer
//   - [gallery-indexer/internal/indexer]: pipeline orchestration
//   - [gallery-indexer/internal/index]: run-index database
//   - [gallery-indexer/internal/server]: HTTP preview
//   - [gallery-indexer/internal/watcher]: filesystem watch mode
//   - [gallery-indexer/internal/startup]: configuration and startup logs
package main
