package thumbs

import "fmt"

// Engine names accepted by NewEngine.
const (
	EngineImaging = "imaging"
	EngineVips    = "vips"
)

// Options control how thumbnails are rendered.
type Options struct {
	// MaxDim is the bounding box edge in pixels. Images larger than the
	// box are scaled down to fit it, preserving aspect ratio; smaller
	// images pass through at their original size.
	MaxDim int
	// Quality is the JPEG encode quality, 1 to 100.
	Quality int
	// ForceJPEG re-encodes every thumbnail as JPEG regardless of the
	// source format, flattening transparency onto white.
	ForceJPEG bool
}

// Engine renders a single thumbnail from a source image file.
// Implementations must be safe for concurrent use.
type Engine interface {
	// Name identifies the engine in logs and metrics.
	Name() string
	// Render decodes srcPath, applies EXIF orientation, scales the image
	// to fit opts.MaxDim without upscaling, and writes the encoded
	// result to dstPath.
	Render(srcPath, dstPath string, opts Options) error
}

// NewEngine returns the engine selected by name. The imaging engine is
// always available. The vips engine needs a working libvips install and
// fails here when the library cannot start, so a misconfigured host is
// caught before any scanning happens.
func NewEngine(name string) (Engine, error) {
	switch name {
	case "", EngineImaging:
		return &imagingEngine{}, nil
	case EngineVips:
		if err := initVips(); err != nil {
			return nil, err
		}
		return &vipsEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown thumbnail engine %q (valid: %s, %s)", name, EngineImaging, EngineVips)
	}
}

// Shutdown releases engine resources. Only the vips engine holds any;
// calling it without a prior vips init is a no-op.
func Shutdown() {
	shutdownVips()
}
