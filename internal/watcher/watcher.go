package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/metrics"
)

// Config controls what the watcher monitors.
type Config struct {
	// Root is the absolute path of the image tree to watch.
	Root string
	// Debounce is the quiet period after the last change before a
	// rebuild fires.
	Debounce time.Duration
	// IgnoreDirs lists absolute directory paths whose subtrees are
	// neither watched nor rebuilt on. Pass the thumbnail root here,
	// otherwise generated thumbnails re-trigger the pipeline.
	IgnoreDirs []string
	// IgnoreFiles lists absolute file paths whose events are
	// discarded, matched as prefixes so sidecars count too: the
	// manifest entry also covers its .tmp sibling, and an index
	// database entry covers its -wal, -shm, and -journal files.
	IgnoreFiles []string
}

// Watcher monitors an image tree and invokes a rebuild callback after
// changes settle.
type Watcher struct {
	cfg       Config
	onRebuild func()
	fsw       *fsnotify.Watcher
}

// New creates a watcher over cfg.Root and registers every directory in
// the tree. The caller runs it with Run.
func New(cfg Config, onRebuild func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for i, p := range cfg.IgnoreDirs {
		cfg.IgnoreDirs[i] = filepath.Clean(p)
	}
	for i, p := range cfg.IgnoreFiles {
		cfg.IgnoreFiles[i] = filepath.Clean(p)
	}

	w := &Watcher{cfg: cfg, onRebuild: onRebuild, fsw: fsw}

	count, err := w.addTree(cfg.Root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Root, err)
	}

	metrics.WatchedDirectories.Set(float64(count))
	logging.Debug("Watching %d directories under %s", count, cfg.Root)
	return w, nil
}

// Run processes events until ctx is cancelled. Each burst of changes
// schedules one call to the rebuild callback after the debounce window
// goes quiet. The callback runs on the watcher goroutine, so a slow
// rebuild delays event handling rather than stacking up runs.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			logging.Error("Failed to close file watcher: %v", err)
		}
	}()

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.handleEvent(event) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-timer.C:
			logging.Info("Change burst settled, rebuilding")
			metrics.WatcherRebuildsTotal.Inc()
			w.onRebuild()
		}
	}
}

// addTree registers path and every directory below it, skipping hidden
// and ignored subtrees. Returns the number of directories added.
func (w *Watcher) addTree(root string) (int, error) {
	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(info.Name(), ".") || w.ignoredPath(path)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			logging.Warn("Failed to watch %s: %v", path, addErr)
			metrics.WatcherErrors.Inc()
			return nil
		}
		count++
		return nil
	})
	return count, err
}

// handleEvent records the event and reports whether it should schedule
// a rebuild. Hidden files, ignored paths, and attribute-only changes
// never do.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return false
	}
	if w.ignoredPath(event.Name) {
		return false
	}

	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if event.Op&fsnotify.Create != 0 {
		w.handleCreate(event)
	}

	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// handleCreate starts watching newly created directories. The whole
// subtree is walked because a directory moved into the watched tree
// arrives with its children already in place.
func (w *Watcher) handleCreate(event fsnotify.Event) {
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}

	count, err := w.addTree(event.Name)
	if err != nil {
		logging.Warn("Failed to watch new directory %s: %v", event.Name, err)
		metrics.WatcherErrors.Inc()
	}
	if count > 0 {
		logging.Debug("Watching new directory: %s", event.Name)
		metrics.WatchedDirectories.Add(float64(count))
	}
}

// ignoredPath reports whether name falls under an ignore entry.
// Directory entries match themselves and their contents. File entries
// match by prefix, so images.json also claims images.json.tmp and
// gallery.db claims gallery.db-wal.
func (w *Watcher) ignoredPath(name string) bool {
	name = filepath.Clean(name)
	for _, p := range w.cfg.IgnoreDirs {
		if name == p || strings.HasPrefix(name, p+string(filepath.Separator)) {
			return true
		}
	}
	for _, p := range w.cfg.IgnoreFiles {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
