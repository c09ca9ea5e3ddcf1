package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/metrics"
)

// Default timeout for standalone queries.
const defaultTimeout = 5 * time.Second

// Index manages the run-index database.
type Index struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	txStart time.Time

	statsMu sync.RWMutex
	stats   Stats
}

// Open opens (or creates) the index database at dbPath and initializes
// the schema. The parent directory must already exist and be writable.
func Open(ctx context.Context, dbPath string) (*Index, error) {
	logging.Info("Index database path: %s", dbPath)

	// WAL mode keeps the preview server's reads from blocking behind a
	// rebuild's writes; busy_timeout covers the rest.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to index database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	ix := &Index{
		db:   db,
		path: dbPath,
	}

	if err := ix.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}

	logging.Info("Index database ready at %s", dbPath)
	return ix, nil
}

func (ix *Index) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		size INTEGER NOT NULL DEFAULT 0,
		mod_time INTEGER NOT NULL,
		fingerprint TEXT,
		thumb_path TEXT,
		thumb_status TEXT,
		first_seen INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		last_seen INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_files_last_seen ON files(last_seen);
	CREATE INDEX IF NOT EXISTS idx_files_mod_time ON files(mod_time);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS file_tags (
		file_path TEXT NOT NULL,
		tag_id INTEGER NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (file_path, tag_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_file_tags_path ON file_tags(file_path);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		files INTEGER NOT NULL,
		thumbs_created INTEGER NOT NULL DEFAULT 0,
		thumbs_skipped INTEGER NOT NULL DEFAULT 0,
		thumbs_errored INTEGER NOT NULL DEFAULT 0,
		manifest_written INTEGER NOT NULL DEFAULT 0
	);
	`

	start := time.Now()
	_, err := ix.db.ExecContext(ctx, schema)
	recordQuery("initialize_schema", start, err)
	return err
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Path returns the database file path.
func (ix *Index) Path() string {
	return ix.path
}

// BeginBatch starts a transaction covering one run's worth of writes.
func (ix *Index) BeginBatch() (*sql.Tx, error) {
	ix.mu.Lock()
	txStart := time.Now()

	// Background context: the transaction's lifetime is managed by
	// EndBatch, not a timeout.
	tx, err := ix.db.BeginTx(context.Background(), nil)
	ix.mu.Unlock()

	if err != nil {
		return nil, err
	}

	ix.txStart = txStart
	return tx, nil
}

// EndBatch commits the transaction, or rolls it back when err is
// non-nil and returns the original error.
func (ix *Index) EndBatch(tx *sql.Tx, err error) error {
	duration := time.Since(ix.txStart)

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return commitErr
	}
	logging.Debug("Index batch committed in %v", duration.Round(time.Millisecond))
	return nil
}

// UpsertFile inserts or refreshes one file row inside a batch.
func (ix *Index) UpsertFile(tx *sql.Tx, f *FileRow) error {
	query := `
	INSERT INTO files (path, size, mod_time, fingerprint, thumb_path, thumb_status, last_seen)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		size = excluded.size,
		mod_time = excluded.mod_time,
		fingerprint = excluded.fingerprint,
		thumb_path = excluded.thumb_path,
		thumb_status = excluded.thumb_status,
		last_seen = excluded.last_seen
	`

	start := time.Now()
	// Background context: the transaction controls the operation's
	// lifecycle.
	_, err := tx.ExecContext(context.Background(), query,
		f.Path,
		f.Size,
		f.ModTime.Unix(),
		f.Fingerprint,
		f.ThumbPath,
		f.ThumbStatus,
		f.LastSeen.Unix(),
	)
	recordQuery("upsert_file", start, err)
	return err
}

// SetFileTags replaces a file's tag set inside a batch, preserving tag
// order through the position column.
func (ix *Index) SetFileTags(tx *sql.Tx, filePath string, tagNames []string) error {
	start := time.Now()
	err := ix.setFileTags(tx, filePath, tagNames)
	recordQuery("set_file_tags", start, err)
	return err
}

func (ix *Index) setFileTags(tx *sql.Tx, filePath string, tagNames []string) error {
	ctx := context.Background()

	if _, err := tx.ExecContext(ctx, "DELETE FROM file_tags WHERE file_path = ?", filePath); err != nil {
		return err
	}

	for pos, tagName := range tagNames {
		tagName = strings.TrimSpace(tagName)
		if tagName == "" {
			continue
		}

		var tagID int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", tagName).Scan(&tagID)
		if errors.Is(err, sql.ErrNoRows) {
			result, createErr := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", tagName)
			if createErr != nil {
				return createErr
			}
			tagID, _ = result.LastInsertId()
		} else if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO file_tags (file_path, tag_id, position) VALUES (?, ?, ?)",
			filePath, tagID, pos,
		); err != nil {
			return err
		}
	}
	return nil
}

// DeleteMissingFiles prunes rows whose last_seen predates cutoff, along
// with their tag links and any tags left unused. It returns the number
// of file rows removed.
func (ix *Index) DeleteMissingFiles(tx *sql.Tx, cutoff time.Time) (int64, error) {
	ctx := context.Background()
	start := time.Now()

	result, err := tx.ExecContext(ctx, "DELETE FROM files WHERE last_seen < ?", cutoff.Unix())
	if err != nil {
		recordQuery("delete_missing_files", start, err)
		return 0, err
	}
	removed, _ := result.RowsAffected()

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM file_tags WHERE file_path NOT IN (SELECT path FROM files)",
	); err != nil {
		recordQuery("delete_missing_files", start, err)
		return removed, err
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM tags WHERE id NOT IN (SELECT DISTINCT tag_id FROM file_tags)",
	)
	recordQuery("delete_missing_files", start, err)
	return removed, err
}

// RecordRun appends one run to the history.
func (ix *Index) RecordRun(ctx context.Context, run *RunRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	manifestWritten := 0
	if run.ManifestWritten {
		manifestWritten = 1
	}

	start := time.Now()
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, duration_ms, files, thumbs_created, thumbs_skipped, thumbs_errored, manifest_written)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Unix(),
		run.Duration.Milliseconds(),
		run.Files,
		run.ThumbsCreated,
		run.ThumbsSkipped,
		run.ThumbsErrored,
		manifestWritten,
	)
	recordQuery("record_run", start, err)
	return err
}

// FileTags returns a file's tags in stored order.
func (ix *Index) FileTags(ctx context.Context, filePath string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := ix.db.QueryContext(ctx, `
		SELECT t.name
		FROM file_tags ft
		JOIN tags t ON t.id = ft.tag_id
		WHERE ft.file_path = ?
		ORDER BY ft.position`,
		filePath,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// CalculateStats queries current totals and the latest run, caches them
// for GetStats, and refreshes the database gauges.
func (ix *Index) CalculateStats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	stats, err := ix.calculateStats(ctx)
	recordQuery("get_stats", start, err)
	if err != nil {
		return Stats{}, err
	}

	ix.statsMu.Lock()
	ix.stats = stats
	ix.statsMu.Unlock()

	metrics.DBFilesTotal.Set(float64(stats.TotalFiles))
	metrics.DBTagsTotal.Set(float64(stats.TotalTags))
	return stats, nil
}

func (ix *Index) calculateStats(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&stats.TotalFiles); err != nil {
		return stats, err
	}
	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&stats.TotalTags); err != nil {
		return stats, err
	}

	var startedAt, durationMS int64
	var files int
	err := ix.db.QueryRowContext(ctx, `
		SELECT started_at, duration_ms, files
		FROM runs
		ORDER BY id DESC
		LIMIT 1`,
	).Scan(&startedAt, &durationMS, &files)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No runs recorded yet.
	case err != nil:
		return stats, err
	default:
		stats.LastRun = time.Unix(startedAt, 0)
		stats.LastRunDuration = (time.Duration(durationMS) * time.Millisecond).String()
		stats.LastRunFiles = files
	}
	return stats, nil
}

// GetStats returns the most recently calculated stats without touching
// the database.
func (ix *Index) GetStats() Stats {
	ix.statsMu.RLock()
	defer ix.statsMu.RUnlock()
	return ix.stats
}

func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
