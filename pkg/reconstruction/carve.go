package reconstruction

import (
	"errors"
	"fmt"
	"sync"

	"silhouette3d/internal/models"
)

// ErrDimensionMismatch is returned when the three silhouettes do not
// describe the same box.
var ErrDimensionMismatch = errors.New("silhouette dimensions do not match")

// CheckDimensions verifies that the top (XY), front (XZ) and side (ZY)
// masks agree on every shared axis.
func CheckDimensions(top, front, side *models.Mask) error {
	if top.Width != front.Width {
		return fmt.Errorf("%w: the XY image width %d must equal the XZ image width %d",
			ErrDimensionMismatch, top.Width, front.Width)
	}
	if top.Height != side.Height {
		return fmt.Errorf("%w: the XY image height %d must equal the ZY image height %d",
			ErrDimensionMismatch, top.Height, side.Height)
	}
	if front.Height != side.Width {
		return fmt.Errorf("%w: the XZ image height %d must equal the ZY image width %d",
			ErrDimensionMismatch, front.Height, side.Width)
	}
	return nil
}

// CarveOptions controls the carving pass
type CarveOptions struct {
	// Workers is the number of goroutines; values below 1 mean one
	Workers int

	// Progress, if set, is called from the calling goroutine each time a
	// worker finishes its range of X planes.
	Progress func(done, total int)
}

// Carve builds the visual hull of the three silhouettes: voxel (i,j,k) is
// solid iff top(i,j), front(i,k) and side(k,j) are all solid.
//
// The X planes are split into contiguous ranges, one per worker. Since i is
// the outermost index each worker writes a disjoint part of the voxel slice.
func Carve(top, front, side *models.Mask, opts CarveOptions) (*models.Grid, error) {
	if err := CheckDimensions(top, front, side); err != nil {
		return nil, err
	}

	grid := models.NewGrid(top.Width, top.Height, front.Height)
	nx := grid.Nx

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > nx {
		workers = nx
	}
	if workers == 0 {
		return grid, nil
	}
	planesPerWorker := (nx + workers - 1) / workers

	done := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * planesPerWorker
		end := start + planesPerWorker
		if end > nx {
			end = nx
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			carvePlanes(grid, top, front, side, start, end)
			done <- end - start
		}(start, end)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for n := range done {
		completed += n
		if opts.Progress != nil {
			opts.Progress(completed, nx)
		}
	}

	return grid, nil
}

// carvePlanes fills the X planes [start, end) of grid
func carvePlanes(grid *models.Grid, top, front, side *models.Mask, start, end int) {
	ny, nz := grid.Ny, grid.Nz
	frontRows := make([][]bool, nz)
	for k := range frontRows {
		frontRows[k] = front.Row(k)
	}
	frontCol := make([]bool, nz)

	for i := start; i < end; i++ {
		for k := 0; k < nz; k++ {
			frontCol[k] = frontRows[k][i]
		}
		idx := grid.Index(i, 0, 0)
		for j := 0; j < ny; j++ {
			if !top.Row(j)[i] {
				idx += nz
				continue
			}
			sideRow := side.Row(j)
			for k := 0; k < nz; k++ {
				grid.Voxels[idx] = frontCol[k] && sideRow[k]
				idx++
			}
		}
	}
}
