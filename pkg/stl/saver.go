package stl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/wrlmesh/pkg/scene"
)

// DefaultSolidName is written when neither the mesh nor the caller names
// the solid.
const DefaultSolidName = "mesh"

// SaveFile writes g to path. The solid is named after the mesh, or after
// the file name without directory and extension. Nothing is written unless
// the whole scene can be encoded.
func SaveFile(path string, g *scene.SceneGraph) error {
	base := filepath.Base(path)
	data, err := Marshal(g, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Kind: KindIO, Op: "save", Err: err}
	}
	return nil
}

// Save encodes g and writes it to w in one call. Nothing is written unless
// the whole scene can be encoded.
func Save(w io.Writer, g *scene.SceneGraph, name string) error {
	data, err := Marshal(g, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &Error{Kind: KindIO, Op: "save", Err: err}
	}
	return nil
}

// Marshal encodes g as ASCII STL. g must hold exactly one Shape whose
// geometry is an IndexedFaceSet made only of triangles, with one normal
// bound per face. name is used when the mesh itself is unnamed.
func Marshal(g *scene.SceneGraph, name string) ([]byte, error) {
	if g == nil {
		return nil, saveError(KindUnsupportedTopology, "nil scene")
	}
	node, ifs, err := g.SingleMesh()
	if err != nil {
		return nil, &Error{Kind: KindUnsupportedTopology, Op: "save", Err: err}
	}

	f := ifs.Faces()
	nFaces := f.FaceCount()
	for iF := 0; iF < nFaces; iF++ {
		if size := f.FaceSize(iF); size != 3 {
			return nil, saveError(KindUnsupportedTopology, "face %d has %d corners, want 3", iF, size)
		}
	}

	if ifs.NormalPerVertex {
		return nil, saveError(KindMissingAttribute, "normals are bound per vertex, want per face")
	}
	if len(ifs.Normal) == 0 {
		return nil, saveError(KindMissingAttribute, "mesh has no normals")
	}
	normalIdx := ifs.FaceNormalIndices()
	if len(normalIdx) != nFaces {
		return nil, saveError(KindMissingAttribute, "%d face normals for %d faces", len(normalIdx), nFaces)
	}

	nV := ifs.VertexCount()
	nN := len(ifs.Normal) / 3
	for iF := 0; iF < nFaces; iF++ {
		if k := normalIdx[iF]; k < 0 || k >= nN {
			return nil, saveError(KindMalformedInput, "face %d uses normal %d, mesh has %d", iF, k, nN)
		}
		for j := 0; j < 3; j++ {
			if v := f.FaceVertex(iF, j); v < 0 || v >= nV {
				return nil, saveError(KindMalformedInput, "face %d uses vertex %d, mesh has %d", iF, v, nV)
			}
		}
	}

	solidName := node.Name
	if solidName == "" {
		solidName = name
	}
	if solidName == "" {
		solidName = DefaultSolidName
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "solid %s\n", solidName)
	for iF := 0; iF < nFaces; iF++ {
		k := normalIdx[iF]
		fmt.Fprintf(&buf, "  facet normal %e %e %e\n", ifs.Normal[3*k], ifs.Normal[3*k+1], ifs.Normal[3*k+2])
		buf.WriteString("    outer loop\n")
		for j := 0; j < 3; j++ {
			v := f.FaceVertex(iF, j)
			fmt.Fprintf(&buf, "      vertex %e %e %e\n", ifs.Coord[3*v], ifs.Coord[3*v+1], ifs.Coord[3*v+2])
		}
		buf.WriteString("    endloop\n")
		buf.WriteString("  endfacet\n")
	}
	fmt.Fprintf(&buf, "endsolid %s\n", solidName)

	return buf.Bytes(), nil
}

func saveError(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: "save", Message: fmt.Sprintf(format, args...)}
}
