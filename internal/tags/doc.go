// Package tags derives search tags from image filenames.
//
// Derivation is pure string work: the extension is stripped, the rest is
// lowercased and split on a configurable separator pattern, and tokens
// with no search value (numbers, single characters, camera noise words)
// are dropped. The same filename always yields the same tags.
package tags
