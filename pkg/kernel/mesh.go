package kernel

// Mesh is a triangle soup. Vertices holds 3 floats per vertex, Indices 3
// vertex indices per triangle and FaceNormals one unit normal per triangle.
type Mesh struct {
	Vertices    []float32 `json:"vertices"`    // [x0,y0,z0, x1,y1,z1, ...]
	FaceNormals []float32 `json:"faceNormals"` // [nx0,ny0,nz0, ...] one per triangle
	Indices     []uint32  `json:"indices"`     // [i0,i1,i2, ...] triangles
	Name        string    `json:"name"`        // shape the mesh was built for
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// HasFaceNormals reports whether every triangle has a normal.
func (m *Mesh) HasFaceNormals() bool {
	return len(m.FaceNormals) == len(m.Indices)
}
