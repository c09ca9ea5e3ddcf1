// Package watcher re-runs the indexing pipeline when the image tree
// changes on disk.
//
// It watches every directory under the image root with fsnotify,
// adding new directories as they appear. Events are debounced: a burst
// of changes (a copy of a whole album, an unzip) schedules a single
// rebuild once the tree has been quiet for the configured window.
//
// The thumbnail tree, the manifest file, and the index database are
// ignored so the pipeline's own writes never trigger another rebuild.
package watcher
