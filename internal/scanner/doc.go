// Package scanner walks the image tree and reports which files to index.
//
// The walk order is fixed so two scans of the same tree always produce
// the same sequence: within each directory files come first in name
// order, then subdirectories are descended in name order. Unreadable
// directories and files are logged and skipped rather than aborting the
// walk.
package scanner
