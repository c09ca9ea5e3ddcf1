package indexer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/scanner"
	"gallery-indexer/internal/thumbs"
	"gallery-indexer/internal/workers"

	"golang.org/x/term"
)

// maxThumbnailWorkers caps the pool; image decoding is memory-hungry
// and more workers than this mostly buys contention.
const maxThumbnailWorkers = 8

// thumbJob pairs a source with its slot in the results slice.
type thumbJob struct {
	pos int
	src scanner.Source
}

// generateThumbnails renders thumbnails for all sources on a worker
// pool. The returned slice is positionally aligned with sources; it is
// nil when thumbnails are disabled. A cancelled context stops feeding
// the pool, and in-flight jobs come back as errored results.
func (idx *Indexer) generateThumbnails(ctx context.Context, sources []scanner.Source) []thumbs.Result {
	if idx.gen == nil || len(sources) == 0 {
		return nil
	}

	numWorkers := workers.ForMixed(maxThumbnailWorkers)
	if numWorkers > len(sources) {
		numWorkers = len(sources)
	}
	logging.Info("Generating thumbnails for %d files with %d workers (%s engine)",
		len(sources), numWorkers, idx.gen.EngineName())

	jobs := make(chan thumbJob)
	results := make([]thumbs.Result, len(sources))

	// Each slot is written by exactly one worker, so the slice needs
	// no lock.
	var done atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if idx.monitor != nil {
					idx.monitor.WaitIfPaused()
				}
				results[job.pos] = idx.gen.Generate(ctx, job.src.AbsPath, job.src.RelPath)
				done.Add(1)
			}
		}()
	}

	stopProgress := reportProgress(&done, len(sources))

feed:
	for i := range sources {
		select {
		case jobs <- thumbJob{pos: i, src: sources[i]}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	stopProgress()

	return results
}

// reportProgress emits thumbnail progress until the returned stop
// function is called. On a terminal it redraws a counter in place;
// otherwise it logs at a slow interval so batch logs stay readable.
func reportProgress(done *atomic.Int64, total int) (stop func()) {
	stopChan := make(chan struct{})
	finished := make(chan struct{})

	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	interval := 5 * time.Second
	if interactive {
		interval = 200 * time.Millisecond
	}

	go func() {
		defer close(finished)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if interactive {
					fmt.Fprintf(os.Stderr, "\r  Thumbnails: %d/%d", done.Load(), total)
				} else {
					logging.Info("Thumbnail progress: %d/%d", done.Load(), total)
				}
			case <-stopChan:
				if interactive {
					fmt.Fprintf(os.Stderr, "\r  Thumbnails: %d/%d\n", done.Load(), total)
				}
				return
			}
		}
	}()

	return func() {
		close(stopChan)
		<-finished
	}
}
