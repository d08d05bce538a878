// Package mesh turns an occupancy grid into a closed triangle surface made of
// exposed voxel faces, and welds that surface into an indexed mesh.
package mesh

import (
	"silhouette3d/internal/models"
)

// Vertex is a voxel corner in integer grid coordinates
type Vertex [3]int

// Soup is an unindexed triangle list: every three consecutive vertices form
// one counter-clockwise triangle seen from outside the solid.
type Soup struct {
	Vertices []Vertex
}

// Triangles returns the number of triangles in the soup
func (s *Soup) Triangles() int {
	return len(s.Vertices) / 3
}

// Quads returns the number of voxel faces in the soup
func (s *Soup) Quads() int {
	return len(s.Vertices) / 6
}

// Empty reports whether the soup has no geometry
func (s *Soup) Empty() bool {
	return len(s.Vertices) == 0
}

// Face is one of the six axis-aligned faces of a voxel
type Face int

// Faces are named after their outward normal
const (
	FaceNegZ Face = iota // normal (0,0,-1)
	FacePosZ             // normal (0,0,+1)
	FaceNegY             // normal (0,-1,0)
	FacePosY             // normal (0,+1,0)
	FaceNegX             // normal (-1,0,0)
	FacePosX             // normal (+1,0,0)
)

// Faces lists the faces in emission order
var Faces = [6]Face{FaceNegZ, FacePosZ, FaceNegY, FacePosY, FaceNegX, FacePosX}

// faceSpec fixes, for one face direction, the axis it is perpendicular to,
// which neighbour it looks at and the two in-plane axes of its quad.
// Without invert the quad normal is u x v, with invert it is v x u.
type faceSpec struct {
	axis   int
	step   int
	u, v   int
	invert bool
}

var faceSpecs = [6]faceSpec{
	FaceNegZ: {axis: 2, step: -1, u: 0, v: 1, invert: true},
	FacePosZ: {axis: 2, step: 1, u: 0, v: 1, invert: false},
	FaceNegY: {axis: 1, step: -1, u: 0, v: 2, invert: false},
	FacePosY: {axis: 1, step: 1, u: 0, v: 2, invert: true},
	FaceNegX: {axis: 0, step: -1, u: 2, v: 1, invert: false},
	FacePosX: {axis: 0, step: 1, u: 2, v: 1, invert: true},
}

// Normal returns the outward unit normal of the face
func (f Face) Normal() Vertex {
	var n Vertex
	s := faceSpecs[f]
	n[s.axis] = s.step
	return n
}

// String returns a short name such as "-Z"
func (f Face) String() string {
	s := faceSpecs[f]
	sign := "+"
	if s.step < 0 {
		sign = "-"
	}
	return sign + "XYZ"[s.axis:s.axis+1]
}

// ExtractSurface emits two triangles for every voxel face that borders an
// empty cell or the grid boundary. Faces shared by two solid voxels are
// dropped, so the result is the closed surface of the solid.
func ExtractSurface(grid *models.Grid) *Soup {
	dims := grid.Dims()
	strides := [3]int{grid.Ny * grid.Nz, grid.Nz, 1}

	exposed := func(c [3]int, idx int, s faceSpec) bool {
		n := c[s.axis] + s.step
		if n < 0 || n >= dims[s.axis] {
			return true
		}
		return !grid.Voxels[idx+s.step*strides[s.axis]]
	}

	// Count first so the vertex buffer is allocated once
	numQuads := 0
	forEachSolid(grid, func(c [3]int, idx int) {
		for _, f := range Faces {
			if exposed(c, idx, faceSpecs[f]) {
				numQuads++
			}
		}
	})

	soup := &Soup{Vertices: make([]Vertex, 0, 6*numQuads)}
	forEachSolid(grid, func(c [3]int, idx int) {
		for _, f := range Faces {
			s := faceSpecs[f]
			if exposed(c, idx, s) {
				soup.Vertices = appendQuad(soup.Vertices, Vertex(c), s)
			}
		}
	})
	return soup
}

func forEachSolid(grid *models.Grid, fn func(c [3]int, idx int)) {
	idx := 0
	for i := 0; i < grid.Nx; i++ {
		for j := 0; j < grid.Ny; j++ {
			for k := 0; k < grid.Nz; k++ {
				if grid.Voxels[idx] {
					fn([3]int{i, j, k}, idx)
				}
				idx++
			}
		}
	}
}

// appendQuad appends the two triangles of the face of voxel c described by s.
func appendQuad(dst []Vertex, c Vertex, s faceSpec) []Vertex {
	o := c
	if s.step > 0 {
		o[s.axis]++
	}

	ou := o
	ou[s.u]++
	ov := o
	ov[s.v]++
	ouv := ou
	ouv[s.v]++

	if !s.invert {
		return append(dst, o, ou, ouv, o, ouv, ov)
	}
	return append(dst, o, ouv, ou, o, ov, ouv)
}
