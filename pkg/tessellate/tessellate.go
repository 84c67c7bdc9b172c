// Package tessellate turns kernel solids into IndexedFaceSet scene nodes.
// Each kernel triangle becomes one separator-terminated face with a normal
// bound per face, which is the shape the STL writer expects.
package tessellate

import (
	"fmt"

	"github.com/chazu/wrlmesh/pkg/faces"
	"github.com/chazu/wrlmesh/pkg/kernel"
	"github.com/chazu/wrlmesh/pkg/scene"
)

// Options control how a kernel mesh is converted.
type Options struct {
	// Weld merges vertices with identical float32 positions. Triangles that
	// collapse after welding are dropped.
	Weld bool
}

// DefaultOptions welds vertices.
func DefaultOptions() Options {
	return Options{Weld: true}
}

// ToIndexedFaceSet converts a triangle soup into IndexedFaceSet data.
// Triangles referring to vertices outside the mesh are skipped. When the
// mesh carries no face normals they are computed from the geometry.
func ToIndexedFaceSet(m *kernel.Mesh, opts Options) *scene.IndexedFaceSetData {
	ifs := &scene.IndexedFaceSetData{
		NormalPerVertex: false,
		CCW:             true,
		Convex:          true,
		Solid:           true,
	}
	if m == nil {
		return ifs
	}

	nV := m.VertexCount()
	remap := make([]int, nV)
	welded := make(map[[3]float32]int)
	for i := 0; i < nV; i++ {
		p := [3]float32{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
		if opts.Weld {
			if j, ok := welded[p]; ok {
				remap[i] = j
				continue
			}
			welded[p] = len(ifs.Coord) / 3
		}
		remap[i] = len(ifs.Coord) / 3
		ifs.Coord = append(ifs.Coord, p[0], p[1], p[2])
	}

	withNormals := m.HasFaceNormals()
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		if int(tri[0]) >= nV || int(tri[1]) >= nV || int(tri[2]) >= nV {
			continue
		}
		a, b, c := remap[tri[0]], remap[tri[1]], remap[tri[2]]
		if a == b || b == c || a == c {
			continue
		}
		ifs.CoordIndex = append(ifs.CoordIndex, a, b, c, faces.Separator)
		if withNormals {
			ifs.Normal = append(ifs.Normal, m.FaceNormals[3*t:3*t+3]...)
		}
	}

	if !withNormals {
		ifs.ComputeFaceNormals()
	}
	return ifs
}

// Shape meshes s with k and returns a Shape subtree holding the result as an
// IndexedFaceSet with a default material.
func Shape(k kernel.Kernel, s kernel.Solid, name string, opts Options) (*scene.Node, error) {
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for shape %q: %w", name, err)
	}
	m.Name = name

	shape, ifs := scene.NewMeshShape(name)
	*ifs = *ToIndexedFaceSet(m, opts)
	return shape, nil
}
