// Package indexer runs the gallery indexing pipeline end to end.
//
// A run scans the configured image tree, derives tags from filenames,
// generates thumbnails into a mirrored directory tree, and writes the
// manifest the gallery front end loads. Each stage feeds the next:
//   - Scan: deterministic walk collecting files on the extension allow-list
//   - Tags: filename tokenization with camera-noise filtering
//   - Thumbnails: parallel generation with skip-if-exists semantics
//   - Manifest: atomic JSON write, refused when no files matched
//
// When a run-index database is configured, every run also upserts the
// files it saw, records their tags, prunes entries whose files have
// disappeared, and appends a row of run history.
//
// Thumbnail generation is the expensive stage and runs on a worker
// pool sized from the available CPUs (overridable with the
// THUMBNAIL_WORKERS environment variable). A memory monitor can pause
// the pool under pressure. Failed thumbnails never block a run; the
// affected files simply appear in the manifest without a thumb entry.
//
// Only one run executes at a time. Concurrent callers get
// [ErrRunInProgress] instead of queueing, which keeps watch-mode
// rebuild storms harmless.
package indexer
