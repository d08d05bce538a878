package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"silhouette3d/internal/models"
)

// Viewer cuts the carved occupancy grid into axis-aligned cross sections,
// which is the quickest way to see what the silhouettes agreed on.
type Viewer struct {
	// grid holds the carved occupancy field
	grid *models.Grid

	// solid and empty are the colours of occupied and free voxels
	solid color.Gray
	empty color.Gray
}

// NewViewer creates a new slice viewer for grid
func NewViewer(grid *models.Grid) *Viewer {
	return &Viewer{
		grid:  grid,
		solid: color.Gray{Y: 255},
		empty: color.Gray{Y: 0},
	}
}

// ExtractSlice extracts a 2D cross section of the grid at position along
// axis. The image is laid out like the silhouette looking down the same
// axis, with the vertical grid axis pointing up.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var view models.View
	switch axis {
	case "x", "X":
		view = models.ViewSide
	case "y", "Y":
		view = models.ViewFront
	case "z", "Z":
		view = models.ViewTop
	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	h, vert, d := view.Axes()
	dims := v.grid.Dims()
	if position >= dims[d] {
		return nil, fmt.Errorf("position %d exceeds %s size %d", position, axis, dims[d])
	}

	width, height := dims[h], dims[vert]
	img := image.NewGray(image.Rect(0, 0, width, height))

	var c [3]int
	c[d] = position
	for y := 0; y < height; y++ {
		c[vert] = y
		for x := 0; x < width; x++ {
			c[h] = x
			col := v.empty
			if v.grid.At(c[0], c[1], c[2]) {
				col = v.solid
			}
			img.SetGray(x, height-1-y, col)
		}
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a PNG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	return imaging.Save(img, filename)
}

// SaveSliceSequence extracts and saves a sequence of slices along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.grid.Nx
	case "y", "Y":
		maxPos = v.grid.Ny
	case "z", "Z":
		maxPos = v.grid.Nz
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
