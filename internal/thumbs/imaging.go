package thumbs

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	_ "image/gif"               // GIF support
	_ "image/png"               // PNG support
	_ "golang.org/x/image/webp" // WebP support
)

// imagingEngine renders thumbnails with the pure-Go disintegration/imaging
// pipeline. It decodes JPEG, PNG, GIF, and WebP; AVIF sources need the
// vips engine. WebP output is decode-only, so keeping the source format
// for a .webp file fails at encode time.
type imagingEngine struct{}

func (e *imagingEngine) Name() string { return EngineImaging }

func (e *imagingEngine) Render(srcPath, dstPath string, opts Options) error {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", srcPath, err)
	}

	// Fit only ever shrinks; images already inside the box pass through.
	thumb := imaging.Fit(img, opts.MaxDim, opts.MaxDim, imaging.Lanczos)

	if opts.ForceJPEG && !thumb.Opaque() {
		thumb = flattenWhite(thumb)
	}

	if err := imaging.Save(thumb, dstPath, imaging.JPEGQuality(opts.Quality)); err != nil {
		return fmt.Errorf("encode %s: %w", dstPath, err)
	}
	return nil
}

// flattenWhite composites an image over a white background. JPEG has no
// alpha channel; encoding a transparent image without flattening turns
// the transparent regions black.
func flattenWhite(img *image.NRGBA) *image.NRGBA {
	flat := image.NewNRGBA(img.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
	return flat
}
