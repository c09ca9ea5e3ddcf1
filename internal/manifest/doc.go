// Package manifest defines the images.json format and writes it.
//
// The manifest is a JSON array of records, one per image, in scan order.
// Output is pretty-printed with two-space indentation and UTF-8 is kept
// literal so filenames with accents or symbols stay readable in the
// file. Writes replace the previous manifest atomically; a reader never
// sees a half-written file.
package manifest
