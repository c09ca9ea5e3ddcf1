// Package index keeps a SQLite record of what each run saw.
//
// The index is optional; the manifest alone is enough for a gallery. When
// enabled it gives the preview API cheap stats, remembers thumbnail
// outcomes per file, and keeps a history of runs. Files that disappear
// from disk are pruned on the next run.
package index
