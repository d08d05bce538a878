package models

// Grid is the occupancy field produced by carving. Voxels are stored in a
// flat slice addressed by Index so the carving and surface passes walk
// memory linearly along k.
type Grid struct {
	// Nx, Ny, Nz are the grid dimensions in voxels
	Nx, Ny, Nz int

	// Voxels holds Nx*Ny*Nz occupancy flags, see Index
	Voxels []bool
}

// NewGrid allocates an empty grid
func NewGrid(nx, ny, nz int) *Grid {
	return &Grid{
		Nx:     nx,
		Ny:     ny,
		Nz:     nz,
		Voxels: make([]bool, nx*ny*nz),
	}
}

// Index returns the flat offset of voxel (i, j, k).
func (g *Grid) Index(i, j, k int) int {
	return k + g.Nz*(j+g.Ny*i)
}

// At reports whether voxel (i, j, k) is solid. Cells outside the grid are
// empty, which is what the surface pass relies on at the boundary.
func (g *Grid) At(i, j, k int) bool {
	if i < 0 || j < 0 || k < 0 || i >= g.Nx || j >= g.Ny || k >= g.Nz {
		return false
	}
	return g.Voxels[g.Index(i, j, k)]
}

// Dims returns the dimensions indexed by axis (0=X, 1=Y, 2=Z).
func (g *Grid) Dims() [3]int {
	return [3]int{g.Nx, g.Ny, g.Nz}
}

// SolidCount returns the number of occupied voxels
func (g *Grid) SolidCount() int {
	n := 0
	for _, v := range g.Voxels {
		if v {
			n++
		}
	}
	return n
}
