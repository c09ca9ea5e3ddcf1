package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gallery-indexer/internal/filesystem"
	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/metrics"
)

// DefaultExtensions are the image formats indexed when EXTENSIONS is unset.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif", "webp", "avif"}

// Source is one image file discovered under the scan root.
type Source struct {
	// AbsPath is the full path on disk.
	AbsPath string
	// RelPath is the forward-slash path relative to the scan root.
	RelPath string
	// Ext is the lowercase extension including the leading dot.
	Ext string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file's last modification time.
	ModTime time.Time
}

// Scanner walks an image tree and collects the files worth indexing.
type Scanner struct {
	root    string
	exts    map[string]bool
	exclude string
	retry   filesystem.RetryConfig
}

// New returns a Scanner rooted at root. Extensions are matched
// case-insensitively and may be given with or without the leading dot.
// exclude names a subtree that is never entered, typically a thumbnail
// directory nested inside the image tree; empty disables exclusion.
func New(root string, extensions []string, exclude string) *Scanner {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" {
			continue
		}
		exts["."+e] = true
	}
	return &Scanner{
		root:    root,
		exts:    exts,
		exclude: exclude,
		retry:   filesystem.DefaultRetryConfig(),
	}
}

// Scan walks the root and returns matching files in deterministic order.
// A missing root is not an error; it is reported and yields an empty
// result so callers can tell "nothing there" from a failed scan.
func (s *Scanner) Scan() ([]Source, error) {
	info, err := filesystem.StatWithRetry(s.root, s.retry)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Warn("Image directory %s does not exist, nothing to scan", s.root)
			return []Source{}, nil
		}
		return nil, fmt.Errorf("stat image directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("image path %s is not a directory", s.root)
	}

	if s.exclude != "" {
		logging.Debug("Scan will skip subtree %s", s.exclude)
	}

	sources := []Source{}
	s.walk(s.root, "", &sources)

	metrics.ScanFilesMatched.Add(float64(len(sources)))
	return sources, nil
}

// walk visits one directory, appending matches to out. rel is the
// directory's forward-slash path relative to the root, empty for the
// root itself.
func (s *Scanner) walk(dir, rel string, out *[]Source) {
	metrics.ScanDirectoriesWalked.Inc()

	// os.ReadDir returns entries sorted by name, which fixes the
	// output order.
	entries, err := filesystem.ReadDirWithRetry(dir, s.retry)
	if err != nil {
		logging.Warn("Skipping unreadable directory %s: %v", dir, err)
		metrics.ScanErrors.Inc()
		return
	}

	var dirs []os.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry)
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !s.exts[ext] {
			continue
		}

		abs := filepath.Join(dir, entry.Name())
		info, err := filesystem.StatWithRetry(abs, s.retry)
		if err != nil {
			logging.Warn("Skipping unreadable file %s: %v", abs, err)
			metrics.ScanErrors.Inc()
			continue
		}

		*out = append(*out, Source{
			AbsPath: abs,
			RelPath: path.Join(rel, entry.Name()),
			Ext:     ext,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	for _, d := range dirs {
		sub := filepath.Join(dir, d.Name())
		if s.exclude != "" && sub == s.exclude {
			logging.Debug("Skipping excluded subtree %s", sub)
			continue
		}
		s.walk(sub, path.Join(rel, d.Name()), out)
	}
}
