package thumbs

import (
	"context"
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

// Outcome classifies what happened to one thumbnail.
type Outcome string

const (
	// OutcomeCreated means the thumbnail was rendered this run.
	OutcomeCreated Outcome = "created"
	// OutcomeSkipped means a thumbnail already existed and was kept.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeErrored means rendering failed; the source stays in the
	// manifest without a thumbnail.
	OutcomeErrored Outcome = "errored"
)

// Result reports the outcome for one source file.
type Result struct {
	// RelPath is the thumbnail's forward-slash path under the thumbnail
	// root. It is set even for errored outcomes so callers can log it.
	RelPath string
	// Outcome classifies what happened.
	Outcome Outcome
	// Err carries the failure for errored outcomes.
	Err error
}

// Generator renders thumbnails into a mirrored tree under thumbRoot.
type Generator struct {
	thumbRoot string
	engine    Engine
	opts      Options
	overwrite bool
	retry     filesystem.RetryConfig
}

// NewGenerator returns a Generator that renders with engine into
// thumbRoot. With overwrite false, existing thumbnails are kept.
func NewGenerator(thumbRoot string, engine Engine, opts Options, overwrite bool) *Generator {
	return &Generator{
		thumbRoot: thumbRoot,
		engine:    engine,
		opts:      opts,
		overwrite: overwrite,
		retry:     filesystem.DefaultRetryConfig(),
	}
}

// EngineName identifies the rendering engine for logs and metrics.
func (g *Generator) EngineName() string {
	return g.engine.Name()
}

// RelPath maps a source's root-relative path to the matching thumbnail
// path under the thumbnail root. With ForceJPEG the extension becomes
// .jpg; otherwise the source extension is kept.
func (g *Generator) RelPath(srcRel string) string {
	if !g.opts.ForceJPEG {
		return srcRel
	}
	return strings.TrimSuffix(srcRel, path.Ext(srcRel)) + ".jpg"
}

// Generate renders the thumbnail for one source file. A failure is
// contained to the item: the error lands in the Result, never in the
// pipeline. An existing destination is reused unless the generator was
// built with overwrite.
func (g *Generator) Generate(ctx context.Context, srcAbs, srcRel string) Result {
	rel := g.RelPath(srcRel)
	dst := filepath.Join(g.thumbRoot, filepath.FromSlash(rel))

	if err := ctx.Err(); err != nil {
		return Result{RelPath: rel, Outcome: OutcomeErrored, Err: err}
	}

	if !g.overwrite {
		if _, err := filesystem.StatWithRetry(dst, g.retry); err == nil {
			metrics.ThumbnailOutcomesTotal.WithLabelValues(string(OutcomeSkipped)).Inc()
			logging.Debug("Thumbnail exists for %s, skipping", srcRel)
			return Result{RelPath: rel, Outcome: OutcomeSkipped}
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return g.errored(rel, srcAbs, fmt.Errorf("create thumbnail directory: %w", err))
	}

	start := time.Now()
	err := g.engine.Render(srcAbs, dst, g.opts)
	filesystem.RecordOperation(dst, "render_thumbnail", start, err)
	if err != nil {
		// A partial file would be mistaken for a finished thumbnail on
		// the next run.
		os.Remove(dst)
		return g.errored(rel, srcAbs, err)
	}

	metrics.ThumbnailOutcomesTotal.WithLabelValues(string(OutcomeCreated)).Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(g.engine.Name()).Observe(time.Since(start).Seconds())
	metrics.ThumbnailDecodeByFormat.WithLabelValues(formatLabel(srcRel)).Inc()
	return Result{RelPath: rel, Outcome: OutcomeCreated}
}

func (g *Generator) errored(rel, srcAbs string, err error) Result {
	metrics.ThumbnailOutcomesTotal.WithLabelValues(string(OutcomeErrored)).Inc()
	logging.Error("Thumbnail failed for %s: %v", srcAbs, err)
	return Result{RelPath: rel, Outcome: OutcomeErrored, Err: err}
}

// formatLabel normalizes a source path's extension into the metric label
// for its image format.
func formatLabel(srcRel string) string {
	switch strings.ToLower(path.Ext(srcRel)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	case ".avif":
		return "avif"
	default:
		return "unknown"
	}
}
