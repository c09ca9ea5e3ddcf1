package indexer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gallery-indexer/internal/index"
	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/manifest"
	"gallery-indexer/internal/memory"
	"gallery-indexer/internal/metrics"
	"gallery-indexer/internal/scanner"
	"gallery-indexer/internal/tags"
	"gallery-indexer/internal/thumbs"
)

// ErrRunInProgress is returned when a run is requested while another
// one is still executing.
var ErrRunInProgress = errors.New("index run already in progress")

// Config holds the paths and switches a pipeline run needs.
type Config struct {
	// ImageDir and ThumbDir as configured, not resolved. The manifest
	// joins them with each file's in-tree path, so relative values
	// produce browser-friendly entries like images/cats/cat1.jpg.
	ImageDir string
	ThumbDir string

	// Resolved absolute paths. AbsImageDir is the scan root;
	// AbsThumbDir is excluded from scanning when it sits inside the
	// image tree.
	AbsImageDir string
	AbsThumbDir string

	// Extensions to index, with or without leading dots.
	Extensions []string

	// DateFromEXIF switches record timestamps from file modification
	// time to the EXIF capture time, falling back per file.
	DateFromEXIF bool
}

// Indexer wires the pipeline stages together and runs them.
type Indexer struct {
	cfg     Config
	scanner *scanner.Scanner
	deriver *tags.Deriver
	gen     *thumbs.Generator // nil disables thumbnails
	writer  *manifest.Writer
	ix      *index.Index // nil disables the run index
	monitor *memory.Monitor

	imagePrefix string
	thumbPrefix string

	runMu     sync.Mutex
	isRunning bool

	lastMu sync.RWMutex
	last   *Report
}

// Report summarizes one completed run.
type Report struct {
	Files           int
	ByExtension     map[string]int
	ThumbsEnabled   bool
	ThumbsCreated   int
	ThumbsSkipped   int
	ThumbsErrored   int
	Records         int
	ManifestWritten bool
	StartedAt       time.Time
	Duration        time.Duration
}

// New creates an Indexer. gen, ix and monitor may be nil to disable
// thumbnails, the run index and memory backpressure respectively.
func New(cfg Config, deriver *tags.Deriver, gen *thumbs.Generator, writer *manifest.Writer, ix *index.Index, monitor *memory.Monitor) *Indexer {
	return &Indexer{
		cfg:         cfg,
		scanner:     scanner.New(cfg.AbsImageDir, cfg.Extensions, cfg.AbsThumbDir),
		deriver:     deriver,
		gen:         gen,
		writer:      writer,
		ix:          ix,
		monitor:     monitor,
		imagePrefix: filepath.ToSlash(filepath.Clean(cfg.ImageDir)),
		thumbPrefix: filepath.ToSlash(filepath.Clean(cfg.ThumbDir)),
	}
}

// Run executes one full pipeline pass: scan, thumbnails, manifest,
// run index. It returns ErrRunInProgress if another run is executing.
// A cancelled context aborts before the manifest is touched, so a
// previously written manifest survives interrupts intact.
func (idx *Indexer) Run(ctx context.Context) (*Report, error) {
	if !idx.tryStartRun() {
		logging.Info("Index run already in progress, skipping...")
		return nil, ErrRunInProgress
	}
	defer idx.finishRun()

	start := time.Now()
	metrics.ScanRunsTotal.Inc()
	logging.Info("Starting index run...")

	sources, err := idx.scanner.Scan()
	if err != nil {
		return nil, err
	}
	logging.Info("Scan found %d files", len(sources))

	results := idx.generateThumbnails(ctx, sources)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := idx.buildRecords(sources, results)

	report := &Report{
		Files:         len(sources),
		ByExtension:   countExtensions(sources),
		ThumbsEnabled: idx.gen != nil,
		Records:       len(records),
		StartedAt:     start,
	}
	for i := range results {
		switch results[i].Outcome {
		case thumbs.OutcomeCreated:
			report.ThumbsCreated++
		case thumbs.OutcomeSkipped:
			report.ThumbsSkipped++
		case thumbs.OutcomeErrored:
			report.ThumbsErrored++
		}
	}

	if err := idx.writer.Write(records); err != nil {
		if !errors.Is(err, manifest.ErrNoRecords) {
			return nil, fmt.Errorf("manifest write failed: %w", err)
		}
		logging.Info("No matching files, manifest left untouched")
	} else {
		report.ManifestWritten = true
	}

	if idx.ix != nil {
		idx.updateIndex(ctx, sources, records, results, report)
	}

	report.Duration = time.Since(start)

	metrics.ScanLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.ScanLastRunDuration.Set(report.Duration.Seconds())
	metrics.ThumbnailLastRunFiles.WithLabelValues(string(thumbs.OutcomeCreated)).Set(float64(report.ThumbsCreated))
	metrics.ThumbnailLastRunFiles.WithLabelValues(string(thumbs.OutcomeSkipped)).Set(float64(report.ThumbsSkipped))
	metrics.ThumbnailLastRunFiles.WithLabelValues(string(thumbs.OutcomeErrored)).Set(float64(report.ThumbsErrored))

	idx.setLastReport(report)

	logging.Info("Index run complete: %d files in %v", report.Files, report.Duration.Round(time.Millisecond))
	return report, nil
}

// buildRecords turns scan results into manifest records. Record order
// follows scan order, which is deterministic.
func (idx *Indexer) buildRecords(sources []scanner.Source, results []thumbs.Result) []manifest.Record {
	records := make([]manifest.Record, 0, len(sources))

	for i := range sources {
		src := sources[i]

		record := manifest.Record{
			File: path.Join(idx.imagePrefix, src.RelPath),
			Date: manifest.FormatDate(idx.recordDate(src)),
			Tags: idx.deriver.Derive(src.RelPath),
		}
		metrics.TagsDerivedTotal.Add(float64(len(record.Tags)))

		// Errored thumbnails stay out of the manifest so the gallery
		// never links a file that does not exist.
		if results != nil && results[i].Outcome != thumbs.OutcomeErrored {
			record.Thumb = path.Join(idx.thumbPrefix, results[i].RelPath)
		}

		records = append(records, record)
	}

	return records
}

// recordDate picks the timestamp for one source file.
func (idx *Indexer) recordDate(src scanner.Source) time.Time {
	if idx.cfg.DateFromEXIF {
		taken, err := exifDate(src.AbsPath)
		if err == nil {
			return taken
		}
		logging.Debug("No EXIF date for %s, using modification time: %v", src.RelPath, err)
	}
	return src.ModTime
}

// updateIndex records the run in the index database. Failures here are
// logged but never invalidate a manifest that was already written.
func (idx *Indexer) updateIndex(ctx context.Context, sources []scanner.Source, records []manifest.Record, results []thumbs.Result, report *Report) {
	now := time.Now()

	tx, err := idx.ix.BeginBatch()
	if err != nil {
		logging.Error("Index database unavailable: %v", err)
		return
	}

	for i := range sources {
		src := sources[i]

		row := &index.FileRow{
			Path:        src.RelPath,
			Size:        src.Size,
			ModTime:     src.ModTime,
			Fingerprint: index.Fingerprint(src.RelPath, src.Size, src.ModTime),
			LastSeen:    now,
		}
		if results != nil {
			row.ThumbPath = records[i].Thumb
			row.ThumbStatus = string(results[i].Outcome)
		}

		if err := idx.ix.UpsertFile(tx, row); err != nil {
			logging.Warn("Error upserting %s: %v", src.RelPath, err)
		}
		if err := idx.ix.SetFileTags(tx, src.RelPath, records[i].Tags); err != nil {
			logging.Warn("Error recording tags for %s: %v", src.RelPath, err)
		}
	}

	// Files upserted above carry last_seen == now, so the strict
	// cutoff removes only rows from earlier runs.
	removed, err := idx.ix.DeleteMissingFiles(tx, now)
	if err != nil {
		logging.Warn("Error pruning missing files: %v", err)
	}

	if err := idx.ix.EndBatch(tx, nil); err != nil {
		logging.Error("Index database batch failed: %v", err)
		return
	}
	if removed > 0 {
		logging.Info("Removed %d missing files from the index", removed)
	}

	if err := idx.ix.RecordRun(ctx, &index.RunRow{
		StartedAt:       report.StartedAt,
		Duration:        time.Since(report.StartedAt),
		Files:           report.Files,
		ThumbsCreated:   report.ThumbsCreated,
		ThumbsSkipped:   report.ThumbsSkipped,
		ThumbsErrored:   report.ThumbsErrored,
		ManifestWritten: report.ManifestWritten,
	}); err != nil {
		logging.Warn("Error recording run history: %v", err)
	}

	if _, err := idx.ix.CalculateStats(ctx); err != nil {
		logging.Debug("Error refreshing index stats: %v", err)
	}
}

// countExtensions tallies sources by extension without the dot.
func countExtensions(sources []scanner.Source) map[string]int {
	counts := make(map[string]int, 8)
	for i := range sources {
		counts[strings.TrimPrefix(sources[i].Ext, ".")]++
	}
	return counts
}

// tryStartRun attempts to start a run, returns false if one is already
// in progress.
func (idx *Indexer) tryStartRun() bool {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()

	if idx.isRunning {
		return false
	}
	idx.isRunning = true
	return true
}

// finishRun marks the run as complete.
func (idx *Indexer) finishRun() {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()
	idx.isRunning = false
}

// IsRunning reports whether a run is currently executing.
func (idx *Indexer) IsRunning() bool {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()
	return idx.isRunning
}

func (idx *Indexer) setLastReport(report *Report) {
	idx.lastMu.Lock()
	idx.last = report
	idx.lastMu.Unlock()
}

// LastReport returns the report of the most recent completed run, or
// nil before the first one finishes. The returned report is shared and
// must not be modified.
func (idx *Indexer) LastReport() *Report {
	idx.lastMu.RLock()
	defer idx.lastMu.RUnlock()
	return idx.last
}
