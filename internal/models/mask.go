package models

import (
	"fmt"
)

// Mask is a thresholded silhouette. Row 0 is the bottom edge of the source
// image, so y grows upwards like the grid axes do.
//
// A Mask is immutable once constructed.
type Mask struct {
	// Width and Height are the mask dimensions in pixels
	Width  int
	Height int

	// pixels holds Width*Height solid flags in row-major order
	pixels []bool
}

// NewMask creates a mask from a row-major slice of solid flags.
// The slice is copied.
func NewMask(width, height int, pixels []bool) (*Mask, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("mask %dx%d needs %d pixels, got %d", width, height, width*height, len(pixels))
	}
	data := make([]bool, len(pixels))
	copy(data, pixels)
	return &Mask{Width: width, Height: height, pixels: data}, nil
}

// NewMaskFunc creates a mask by evaluating solid for every pixel.
func NewMaskFunc(width, height int, solid func(x, y int) bool) *Mask {
	data := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = solid(x, y)
		}
	}
	return &Mask{Width: width, Height: height, pixels: data}
}

// At reports whether pixel (x, y) is solid. Out of range pixels are empty.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.pixels[y*m.Width+x]
}

// Row returns the solid flags of row y. The slice is shared with the mask
// and must not be modified.
func (m *Mask) Row(y int) []bool {
	return m.pixels[y*m.Width : (y+1)*m.Width]
}

// SolidCount returns the number of solid pixels
func (m *Mask) SolidCount() int {
	n := 0
	for _, p := range m.pixels {
		if p {
			n++
		}
	}
	return n
}

// View identifies one of the three orthogonal silhouettes.
type View int

const (
	// ViewTop looks down the Z axis; the mask plane is XY.
	ViewTop View = iota
	// ViewFront looks down the Y axis; the mask plane is XZ.
	ViewFront
	// ViewSide looks down the X axis; the mask plane is ZY.
	ViewSide
)

// Views lists the views in the order the command line takes them.
var Views = [3]View{ViewTop, ViewFront, ViewSide}

// String returns the plane name used in output file suffixes.
func (v View) String() string {
	switch v {
	case ViewTop:
		return "XY"
	case ViewFront:
		return "XZ"
	case ViewSide:
		return "ZY"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Axes returns the grid axes (0=X, 1=Y, 2=Z) that the mask's horizontal
// and vertical directions follow, and the depth axis the view looks along.
func (v View) Axes() (horizontal, vertical, depth int) {
	switch v {
	case ViewFront:
		return 0, 2, 1
	case ViewSide:
		return 2, 1, 0
	default:
		return 0, 1, 2
	}
}
