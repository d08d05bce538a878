package reconstruction

import (
	"fmt"

	"silhouette3d/internal/models"
)

// ViewReport is the result of projecting the grid back onto one silhouette.
type ViewReport struct {
	// View is the silhouette that was checked
	View models.View

	// FoundError is set when at least one solid pixel is unexplained
	FoundError bool

	// Unexplained marks the solid pixels with no solid voxel along their
	// depth line. It has the dimensions of the checked mask.
	Unexplained *models.Mask

	// Count is the number of unexplained pixels
	Count int

	// Solid is the number of solid pixels in the checked mask
	Solid int
}

// ExplainedRatio returns the fraction of solid pixels backed by the grid.
// A view without solid pixels is fully explained.
func (r *ViewReport) ExplainedRatio() float64 {
	if r.Solid == 0 {
		return 1
	}
	return float64(r.Solid-r.Count) / float64(r.Solid)
}

// CheckView scans, for every solid pixel of mask, the line of voxels along
// the view's depth axis. Pixels whose line is entirely empty are reported as
// unexplained: the other two views removed every voxel that could have
// produced them.
func CheckView(grid *models.Grid, mask *models.Mask, view models.View) (*ViewReport, error) {
	h, v, d := view.Axes()
	dims := grid.Dims()
	if mask.Width != dims[h] || mask.Height != dims[v] {
		return nil, fmt.Errorf("%w: %s mask is %dx%d, grid plane is %dx%d",
			ErrDimensionMismatch, view, mask.Width, mask.Height, dims[h], dims[v])
	}

	report := &ViewReport{View: view}
	flags := make([]bool, mask.Width*mask.Height)

	var c [3]int
	for y := 0; y < mask.Height; y++ {
		c[v] = y
		for x := 0; x < mask.Width; x++ {
			c[h] = x
			if !mask.At(x, y) {
				continue
			}
			report.Solid++

			found := false
			for z := 0; z < dims[d]; z++ {
				c[d] = z
				if grid.Voxels[grid.Index(c[0], c[1], c[2])] {
					found = true
					break
				}
			}
			if !found {
				flags[y*mask.Width+x] = true
				report.Count++
			}
		}
	}

	report.FoundError = report.Count > 0
	report.Unexplained = models.NewMaskFunc(mask.Width, mask.Height, func(x, y int) bool {
		return flags[y*mask.Width+x]
	})
	return report, nil
}

// CheckViews runs CheckView for the top, front and side masks.
func CheckViews(grid *models.Grid, top, front, side *models.Mask) ([3]*ViewReport, error) {
	var reports [3]*ViewReport
	for i, mask := range [3]*models.Mask{top, front, side} {
		report, err := CheckView(grid, mask, models.Views[i])
		if err != nil {
			return reports, err
		}
		reports[i] = report
	}
	return reports, nil
}
