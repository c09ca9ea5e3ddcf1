package indexer

import (
	"time"

	"gallery-indexer/internal/filesystem"

	"github.com/rwcarlsen/goexif/exif"
)

// exifDate reads the capture time from a file's EXIF block. Most PNGs
// and GIFs have none, so callers treat an error as "use the
// modification time" rather than a failure.
func exifDate(path string) (time.Time, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}
