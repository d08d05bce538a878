package mesh

// IndexedMesh is a triangle mesh with shared vertices. Triangles index into
// Vertices and keep the winding of the soup they came from.
type IndexedMesh struct {
	Vertices  []Vertex
	Triangles [][3]uint32
}

// Weld merges vertices with identical positions. Positions are lattice
// points, so exact comparison is enough. Vertex indices are assigned in
// order of first appearance, which makes welding a welded mesh's expansion
// a no-op.
func Weld(s *Soup) *IndexedMesh {
	numTris := s.Triangles()
	m := &IndexedMesh{
		Triangles: make([][3]uint32, numTris),
	}

	index := make(map[Vertex]uint32, numTris/2+1)
	for t := 0; t < numTris; t++ {
		for c := 0; c < 3; c++ {
			v := s.Vertices[3*t+c]
			id, ok := index[v]
			if !ok {
				id = uint32(len(m.Vertices))
				m.Vertices = append(m.Vertices, v)
				index[v] = id
			}
			m.Triangles[t][c] = id
		}
	}
	return m
}

// Expand flattens the mesh back into a triangle soup
func (m *IndexedMesh) Expand() *Soup {
	s := &Soup{Vertices: make([]Vertex, 0, 3*len(m.Triangles))}
	for _, tri := range m.Triangles {
		s.Vertices = append(s.Vertices, m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]])
	}
	return s
}

// EdgeUses counts how many triangles use each undirected edge. On a closed
// voxel surface every count is even.
func (m *IndexedMesh) EdgeUses() map[[2]uint32]int {
	uses := make(map[[2]uint32]int, 3*len(m.Triangles)/2)
	for _, tri := range m.Triangles {
		for c := 0; c < 3; c++ {
			a, b := tri[c], tri[(c+1)%3]
			if a > b {
				a, b = b, a
			}
			uses[[2]uint32{a, b}]++
		}
	}
	return uses
}
