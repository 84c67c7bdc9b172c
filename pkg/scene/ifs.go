package scene

import (
	"github.com/chazu/wrlmesh/pkg/faces"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VertexCount returns the number of complete xyz triples in Coord.
func (d *IndexedFaceSetData) VertexCount() int {
	return len(d.Coord) / 3
}

// Faces builds the connectivity table for the mesh.
func (d *IndexedFaceSetData) Faces() *faces.Faces {
	return faces.New(d.VertexCount(), d.CoordIndex)
}

// Vertex returns the coordinates of vertex i. The caller must ensure i is
// in [0, VertexCount()).
func (d *IndexedFaceSetData) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(d.Coord[3*i]),
		Y: float64(d.Coord[3*i+1]),
		Z: float64(d.Coord[3*i+2]),
	}
}

// NormalCount returns the number of normals the mesh binds: the non-separator
// entries of NormalIndex when it is set, otherwise the triples in Normal.
func (d *IndexedFaceSetData) NormalCount() int {
	if len(d.NormalIndex) == 0 {
		return len(d.Normal) / 3
	}
	n := 0
	for _, idx := range d.NormalIndex {
		if idx != faces.Separator {
			n++
		}
	}
	return n
}

// FaceNormalIndices returns, for per-face normal binding, the index into
// Normal used by each face in order. Separators in NormalIndex are skipped.
func (d *IndexedFaceSetData) FaceNormalIndices() []int {
	if len(d.NormalIndex) == 0 {
		out := make([]int, len(d.Normal)/3)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, len(d.NormalIndex))
	for _, idx := range d.NormalIndex {
		if idx != faces.Separator {
			out = append(out, idx)
		}
	}
	return out
}

// Normal3 returns normal i as a vector. The caller must ensure 3*i+2 is
// within Normal.
func (d *IndexedFaceSetData) Normal3(i int) v3.Vec {
	return v3.Vec{
		X: float64(d.Normal[3*i]),
		Y: float64(d.Normal[3*i+1]),
		Z: float64(d.Normal[3*i+2]),
	}
}

// ComputeFaceNormals replaces Normal with one unit normal per face and binds
// normals per face. The normal of a polygon is the normalized sum of the
// cross products of its triangle fan; faces with fewer than three valid
// corners, or with zero area, get a zero normal.
func (d *IndexedFaceSetData) ComputeFaceNormals() {
	f := d.Faces()
	nV := d.VertexCount()

	d.Normal = make([]float32, 0, 3*f.FaceCount())
	d.NormalIndex = nil
	d.NormalPerVertex = false

	for iF := 0; iF < f.FaceCount(); iF++ {
		n := fanNormal(d, f, iF, nV)
		d.Normal = append(d.Normal, float32(n.X), float32(n.Y), float32(n.Z))
	}
}

func fanNormal(d *IndexedFaceSetData, f *faces.Faces, iF, nV int) v3.Vec {
	size := f.FaceSize(iF)
	if size < 3 {
		return v3.Vec{}
	}
	i0 := f.FaceVertex(iF, 0)
	if !inRange(i0, nV) {
		return v3.Vec{}
	}
	p0 := d.Vertex(i0)

	var sum v3.Vec
	for j := 1; j+1 < size; j++ {
		ia, ib := f.FaceVertex(iF, j), f.FaceVertex(iF, j+1)
		if !inRange(ia, nV) || !inRange(ib, nV) {
			return v3.Vec{}
		}
		a := d.Vertex(ia).Sub(p0)
		b := d.Vertex(ib).Sub(p0)
		sum = sum.Add(a.Cross(b))
	}
	if sum.Length() == 0 {
		return v3.Vec{}
	}
	return sum.Normalize()
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

// Bounds returns the axis-aligned bounding box of Coord. ok is false when
// the mesh has no vertices.
func (d *IndexedFaceSetData) Bounds() (min, max v3.Vec, ok bool) {
	nV := d.VertexCount()
	if nV == 0 {
		return v3.Vec{}, v3.Vec{}, false
	}
	min = d.Vertex(0)
	max = min
	for i := 1; i < nV; i++ {
		p := d.Vertex(i)
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max, true
}
