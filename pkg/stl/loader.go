// Package stl reads and writes the ASCII STL triangle-mesh format.
//
// A loaded file becomes a scene graph with a single Shape whose geometry is
// an IndexedFaceSet: vertices are numbered in the order they are read, every
// facet contributes one separator-terminated triple to coordIndex, and its
// normal is bound per face. Saving requires the reverse shape.
//
// Reference: https://en.wikipedia.org/wiki/STL_(file_format)
package stl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/wrlmesh/pkg/faces"
	"github.com/chazu/wrlmesh/pkg/scene"
)

// Ext is the file extension handled by this package, without the dot.
const Ext = "stl"

// HasExt reports whether path ends in .stl, ignoring case.
func HasExt(path string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), Ext)
}

// LoadFile opens path and loads it with Load. The scene URL is set to path.
func LoadFile(path string) (*scene.SceneGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "load", Err: err}
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, err
	}
	g.SetURL(path)
	return g, nil
}

// Load parses an ASCII STL stream. On any error no scene is returned.
func Load(r io.Reader) (*scene.SceneGraph, error) {
	tkn := NewTokenizer(r)

	if !tkn.Expecting("solid") {
		return nil, loadError(tkn, "expected 'solid' at start of file, found %q", tkn.Token())
	}

	// The solid name runs up to the first facet and may span several tokens.
	var nameParts []string
	for {
		if !tkn.Next() {
			return nil, loadError(tkn, "unexpected end of file in header")
		}
		if tkn.Equals("facet") || tkn.Equals("endsolid") {
			break
		}
		nameParts = append(nameParts, tkn.Token())
	}
	name := strings.Join(nameParts, " ")

	shape, ifs := scene.NewMeshShape(name)
	ifs.NormalPerVertex = false

	for tkn.Equals("facet") {
		if err := parseFacet(tkn, ifs); err != nil {
			return nil, err
		}
		if !tkn.Next() {
			return nil, loadError(tkn, "unexpected end of file, expected 'endsolid'")
		}
	}
	if !tkn.Equals("endsolid") {
		return nil, loadError(tkn, "expected 'facet' or 'endsolid', found %q", tkn.Token())
	}

	g := scene.New()
	g.AddChild(shape)
	return g, nil
}

// parseFacet consumes one facet block. The current token must be "facet";
// on return the current token is "endfacet".
func parseFacet(tkn *Tokenizer, ifs *scene.IndexedFaceSetData) error {
	if !tkn.Expecting("normal") {
		return loadError(tkn, "expected 'normal' after 'facet'")
	}
	n, err := parseTriple(tkn, "normal")
	if err != nil {
		return err
	}

	if !tkn.Expecting("outer") {
		return loadError(tkn, "expected 'outer' after normal")
	}
	if !tkn.Expecting("loop") {
		return loadError(tkn, "expected 'loop' after 'outer'")
	}

	start := ifs.VertexCount()
	var coord [9]float32
	for i := 0; i < 3; i++ {
		if !tkn.Expecting("vertex") {
			return loadError(tkn, "expected 'vertex' in loop")
		}
		v, err := parseTriple(tkn, "vertex")
		if err != nil {
			return err
		}
		copy(coord[3*i:], v[:])
	}

	if !tkn.Expecting("endloop") {
		return loadError(tkn, "expected 'endloop'")
	}
	if !tkn.Expecting("endfacet") {
		return loadError(tkn, "expected 'endfacet'")
	}

	ifs.Normal = append(ifs.Normal, n[:]...)
	ifs.Coord = append(ifs.Coord, coord[:]...)
	ifs.CoordIndex = append(ifs.CoordIndex, start, start+1, start+2, faces.Separator)
	return nil
}

func parseTriple(tkn *Tokenizer, what string) ([3]float32, error) {
	var v [3]float32
	for i, axis := range []string{"x", "y", "z"} {
		f, ok := tkn.Float()
		if !ok {
			return v, loadError(tkn, "failed to parse %s %s from %q", what, axis, tkn.Token())
		}
		v[i] = f
	}
	return v, nil
}

// loadError reports a read failure as KindIO and anything else as
// KindMalformedInput at the tokenizer's current line.
func loadError(tkn *Tokenizer, format string, args ...interface{}) error {
	if err := tkn.Err(); err != nil {
		return &Error{Kind: KindIO, Op: "load", Line: tkn.Line(), Err: err}
	}
	return &Error{
		Kind:    KindMalformedInput,
		Op:      "load",
		Line:    tkn.Line(),
		Message: fmt.Sprintf(format, args...),
	}
}
