// Package stl writes and reads binary STL files.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"silhouette3d/internal/fsutil"
	"silhouette3d/pkg/mesh"
)

const (
	// HeaderSize is the size of the free-form header in bytes
	HeaderSize = 80

	// TriangleSize is the size of one triangle record in bytes
	TriangleSize = 50

	defaultHeader = "silhouette3d binary STL"
)

// Triangle is one STL record: a facet normal plus three vertices.
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // attribute byte count, always zero
}

type fileHeader struct {
	Header [HeaderSize]byte
	Count  uint32
}

// FromMesh re-expands an indexed mesh into STL triangles. Lattice
// coordinates are multiplied by scale per axis before normals are computed.
func FromMesh(m *mesh.IndexedMesh, scale [3]float64) []Triangle {
	triangles := make([]Triangle, len(m.Triangles))
	for t, tri := range m.Triangles {
		a := toVec(m.Vertices[tri[0]], scale)
		b := toVec(m.Vertices[tri[1]], scale)
		c := toVec(m.Vertices[tri[2]], scale)

		triangles[t] = Triangle{
			Normal:  toFloat32(FaceNormal(a, b, c)),
			Vertex1: toFloat32(a),
			Vertex2: toFloat32(b),
			Vertex3: toFloat32(c),
		}
	}
	return triangles
}

// FaceNormal returns the unit normal of the counter-clockwise triangle
// abc. Degenerate triangles get a zero normal.
func FaceNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

func toVec(v mesh.Vertex, scale [3]float64) r3.Vec {
	return r3.Vec{
		X: float64(v[0]) * scale[0],
		Y: float64(v[1]) * scale[1],
		Z: float64(v[2]) * scale[2],
	}
}

func toFloat32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Encode writes triangles as a binary STL stream
func Encode(w io.Writer, triangles []Triangle) error {
	bw := bufio.NewWriter(w)

	var header fileHeader
	copy(header.Header[:], defaultHeader)
	header.Count = uint32(len(triangles))
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i := range triangles {
		if err := binary.Write(bw, binary.LittleEndian, &triangles[i]); err != nil {
			return fmt.Errorf("error writing triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// Marshal encodes triangles into an in-memory binary STL
func Marshal(triangles []Triangle) []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + 4 + TriangleSize*len(triangles))
	// writes to a bytes.Buffer cannot fail
	_ = Encode(&buf, triangles)
	return buf.Bytes()
}

// maxPrealloc caps the triangles reserved up front by Decode
const maxPrealloc = 1 << 16

// Decode reads a binary STL stream
func Decode(r io.Reader) ([]Triangle, error) {
	var header fileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	// the count is untrusted, so the slice grows as records arrive
	triangles := make([]Triangle, 0, min(header.Count, maxPrealloc))
	for i := uint32(0); i < header.Count; i++ {
		var tri Triangle
		if err := binary.Read(r, binary.LittleEndian, &tri); err != nil {
			return nil, fmt.Errorf("error reading triangle %d of %d: %w", i, header.Count, err)
		}
		triangles = append(triangles, tri)
	}
	return triangles, nil
}

// Save writes an encoded STL to filename. The file only appears once it
// has been written completely.
func Save(filename string, data []byte) error {
	return fsutil.WriteFileAtomic(filename, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
