package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gallery-indexer/internal/filesystem"
	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/metrics"
)

// DateFormat is the timestamp layout used in manifest records: UTC,
// second precision, trailing Z.
const DateFormat = "2006-01-02T15:04:05Z"

// Record is one manifest entry. Field order matches the emitted JSON.
type Record struct {
	// File is the browser-facing path of the original image, the
	// configured image root joined with the file's path inside it.
	File string `json:"file"`
	// Thumb is the matching thumbnail path. It is omitted when
	// thumbnails are disabled or this file's thumbnail failed.
	Thumb string `json:"thumb,omitempty"`
	// Date is the image timestamp in DateFormat.
	Date string `json:"date"`
	// Tags are the filename-derived search tags. Always present, never
	// null.
	Tags []string `json:"tags"`
}

// FormatDate renders a timestamp the way gallery front ends expect.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// ErrNoRecords is returned when Write is asked to persist an empty set.
// Callers decide how to report that; the file on disk is left alone.
var ErrNoRecords = errors.New("no records to write")

// Writer persists manifests to a fixed path.
type Writer struct {
	path  string
	retry filesystem.RetryConfig
}

// NewWriter returns a Writer for the manifest at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path, retry: filesystem.DefaultRetryConfig()}
}

// Path returns the destination file.
func (w *Writer) Path() string {
	return w.path
}

// Write encodes records and replaces the manifest file. The write goes
// through a temporary file and a rename so a concurrent reader sees
// either the old manifest or the new one, never a torn write. An empty
// record set returns ErrNoRecords without touching the file.
func (w *Writer) Write(records []Record) error {
	if len(records) == 0 {
		metrics.ManifestWritesTotal.WithLabelValues("skipped_empty").Inc()
		return ErrNoRecords
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		metrics.ManifestWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("encode manifest: %w", err)
	}

	start := time.Now()
	err := replaceFile(w.path, buf.Bytes())
	filesystem.RecordOperation(w.path, "write_manifest", start, err)
	if err != nil {
		metrics.ManifestWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("write manifest: %w", err)
	}

	metrics.ManifestWritesTotal.WithLabelValues("written").Inc()
	metrics.ManifestRecords.Set(float64(len(records)))
	metrics.ManifestSizeBytes.Set(float64(buf.Len()))
	logging.Debug("Wrote %d records (%d bytes) to %s", len(records), buf.Len(), w.path)
	return nil
}

// replaceFile writes data next to path and renames it into place.
func replaceFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
