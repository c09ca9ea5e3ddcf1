// Package thumbs generates the mirrored thumbnail tree for an image
// library.
//
// Rendering is behind the Engine interface with two implementations: a
// pure-Go pipeline built on disintegration/imaging that works everywhere,
// and a libvips pipeline that is much faster and decodes more formats but
// needs the native library installed. The Generator owns everything
// around rendering: destination layout, skip-if-exists, per-file error
// containment, and metrics.
//
// Thumbnails mirror the source tree. A source cats/tabby.jpg becomes
// cats/tabby.jpg under the thumbnail root, with the extension swapped to
// .jpg when JPEG output is forced.
package thumbs
