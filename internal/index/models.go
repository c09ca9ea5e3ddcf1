package index

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// FileRow is one file's state as of the latest run that saw it.
type FileRow struct {
	Path        string
	Size        int64
	ModTime     time.Time
	Fingerprint string
	ThumbPath   string
	ThumbStatus string
	LastSeen    time.Time
}

// RunRow is the recorded outcome of one complete run.
type RunRow struct {
	StartedAt       time.Time
	Duration        time.Duration
	Files           int
	ThumbsCreated   int
	ThumbsSkipped   int
	ThumbsErrored   int
	ManifestWritten bool
}

// Stats summarizes the index for the preview API and metrics.
type Stats struct {
	TotalFiles      int
	TotalTags       int
	LastRun         time.Time
	LastRunDuration string
	LastRunFiles    int
}

// Fingerprint identifies a file state from its path, size, and mtime.
// File contents are never read.
func Fingerprint(path string, size int64, modTime time.Time) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, size, modTime.UnixNano())))
	return hex.EncodeToString(sum[:16])
}
