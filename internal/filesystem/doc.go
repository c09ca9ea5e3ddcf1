/*
Package filesystem provides resilient filesystem operations with automatic retry
logic for NFS stale file handle errors.

# Purpose

Image libraries are frequently NFS exports. This package wraps the filesystem
operations the indexer performs constantly (os.Stat, os.Open, os.ReadDir) with
retry logic for transient NFS failures, particularly ESTALE (stale file handle)
errors that occur when exported files are accessed during network issues or
server-side changes.

# Key Features

  - Automatic retry with exponential backoff for NFS ESTALE errors (errno 116)
  - Configurable retry attempts (default: 3) and backoff timings
  - Transparent fallback to standard os behavior for non-NFS errors
  - Per-volume metric labeling via VolumeResolver
  - Zero overhead for successful operations

# Usage

Basic usage with default retry configuration:

	import "gallery-indexer/internal/filesystem"

	info, err := filesystem.StatWithRetry("/images/cats/cat1.jpg", filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}

	file, err := filesystem.OpenWithRetry("/images/cats/cat1.jpg", filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer file.Close()

Custom retry configuration:

	config := filesystem.RetryConfig{
	    MaxRetries:     5,
	    InitialBackoff: 100 * time.Millisecond,
	    MaxBackoff:     1 * time.Second,
	}
	entries, err := filesystem.ReadDirWithRetry(dir, config)

# Volume Labels

Metrics are labeled by volume so dashboards can separate the image root from
the thumbnail root and the manifest output location. The resolver is
configured once at startup from the loaded configuration:

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
	    "images": cfg.ImageDir,
	    "thumbs": cfg.ThumbDir,
	    "output": filepath.Dir(cfg.OutputFile),
	}))

Resolution uses longest-prefix matching on absolute paths, so a thumbnail
root nested inside the image root still labels correctly.

# Retry Behavior

The retry logic implements exponential backoff with the following defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms, doubling per attempt
  - MaxBackoff: 500ms cap

Only ESTALE errors are retried. Everything else (ENOENT, EACCES, ...) is
returned immediately so missing files fail fast.

# Metrics

Recording happens through the Observer interface rather than a direct
dependency on the metrics package, which would otherwise create an import
cycle. The metrics package installs its implementation at startup via
SetObserver; when no observer is installed (unit tests), recording is a no-op.
*/
package filesystem
