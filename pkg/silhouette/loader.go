// Package silhouette converts raster images into binary masks and renders
// masks back into images for diagnostics.
package silhouette

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"silhouette3d/internal/fsutil"
	"silhouette3d/internal/models"
)

// Options controls how an image is thresholded into a mask
type Options struct {
	// Level is the intensity at or above which a pixel is bright
	Level uint8

	// Invert makes dark pixels solid instead of bright ones
	Invert bool
}

// Load decodes the image at path and thresholds it into a mask.
func Load(path string, opts Options) (*models.Mask, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return ToMask(img, opts), nil
}

// ToMask thresholds img. The image is flattened onto opaque black, so a
// transparent pixel has intensity 0, and flipped vertically so that mask
// row 0 is the bottom edge of the picture.
func ToMask(img image.Image, opts Options) *models.Mask {
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.Black), img, image.Pt(0, 0), 1)
	flipped := imaging.FlipV(flat)
	bright := segment.Threshold(flipped, opts.Level)

	bounds := bright.Bounds()
	return models.NewMaskFunc(bounds.Dx(), bounds.Dy(), func(x, y int) bool {
		isBright := bright.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y == 0xFF
		return isBright != opts.Invert
	})
}

// Palette holds the colours used when rendering a mask
type Palette struct {
	Solid  color.NRGBA
	Empty  color.NRGBA
	Marker color.NRGBA
}

// NewPalette returns the thresholded colours for the given polarity: solid
// pixels keep the colour they were thresholded to.
func NewPalette(invert bool, marker color.Color) Palette {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}

	m := color.NRGBAModel.Convert(marker).(color.NRGBA)
	m.A = 255

	if invert {
		return Palette{Solid: black, Empty: white, Marker: m}
	}
	return Palette{Solid: white, Empty: black, Marker: m}
}

// Annotate renders mask in raster orientation. Pixels set in unexplained
// are painted with the marker colour; every pixel is fully opaque.
func Annotate(mask, unexplained *models.Mask, p Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		row := mask.Height - 1 - y
		for x := 0; x < mask.Width; x++ {
			c := p.Empty
			switch {
			case unexplained != nil && unexplained.At(x, y):
				c = p.Marker
			case mask.At(x, y):
				c = p.Solid
			}
			img.SetNRGBA(x, row, c)
		}
	}
	return img
}

// Save writes img as PNG. The file only appears once it is complete.
func Save(path string, img image.Image) error {
	return fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		if err := imaging.Encode(w, img, imaging.PNG); err != nil {
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		return nil
	})
}

// OutputPath derives a sibling path of input: the extension is replaced by
// suffix followed by ext.
func OutputPath(input, suffix, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if base == "" || strings.HasSuffix(base, string(filepath.Separator)) {
		base = input
	}
	return base + suffix + ext
}
