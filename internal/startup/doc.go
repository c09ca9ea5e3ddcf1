// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - IMAGE_DIR: Root of the image tree to index (default: images)
//   - THUMB_DIR: Root of the mirrored thumbnail tree (default: thumbs)
//   - OUTPUT_FILE: Manifest file path (default: images.json)
//   - EXTENSIONS: Comma-separated extensions to index (default: jpg,jpeg,png,gif,webp,avif)
//   - TAGS_ENABLED: Derive tags from filenames (default: true)
//   - TAG_SEPARATORS: Regular expression splitting filenames into tags (default: [_\-\s\.]+)
//   - FILTER_WEAK_TAGS: Drop camera noise tokens like "img" or "0001" (default: true)
//   - THUMBNAILS_ENABLED: Generate thumbnails (default: true)
//   - THUMB_MAX_DIM: Longest thumbnail edge in pixels (default: 400)
//   - THUMB_QUALITY: JPEG quality 1-100 (default: 85)
//   - FORCE_JPG: Re-encode every thumbnail as JPEG (default: true)
//   - OVERWRITE_THUMBS: Regenerate thumbnails that already exist (default: false)
//   - THUMBNAIL_ENGINE: imaging or vips (default: imaging)
//   - THUMBNAIL_WORKERS: Override thumbnail worker count
//   - DATE_SOURCE: Record timestamp source, mtime or exif (default: mtime)
//   - INDEX_DB: SQLite run-index database path (default: disabled)
//   - SERVE: Start the preview server after indexing (default: false)
//   - PORT: Preview server port (default: 8080)
//   - METRICS_ENABLED: Expose Prometheus metrics on the preview server (default: true)
//   - WATCH: Re-index when the image tree changes (default: false)
//   - WATCH_DEBOUNCE: Quiet period before a watch rebuild as Go duration (default: 2s)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - MEMORY_LIMIT: Container memory limit for automatic GOMEMLIMIT configuration
//
// # Directory Setup
//
// The package validates and creates directories as needed:
//   - Output directory: Required, must be writable (holds the manifest)
//   - Thumbnail directory: Optional, thumbnails are disabled if unwritable
//   - Image directory: Created if missing, a missing tree only means an empty index
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogEngineInit], [LogEngineReady]: Thumbnail engine construction
//   - [LogIndexDBInit]: Run-index database initialization timing
//   - [LogRunSummary]: End-of-run file, thumbnail and manifest report
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogWatchStarted]: Watch mode parameters
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	// Index the tree...
//	startup.LogRunSummary(summary)
//
//	// Optionally start the preview server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    ManifestName:    filepath.Base(config.OutputFile),
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
