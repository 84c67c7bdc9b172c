// Package faces builds a read-only connectivity table over a polygon mesh
// stored as a flat coordIndex array, where each face is a run of vertex
// indices terminated by Separator.
//
// Faces are identified by dense ids in [0, FaceCount()). Corners are
// absolute positions in the coordIndex array, separators included. A Faces
// value is immutable once built and may be shared by concurrent readers.
// Queries never fail: out-of-range arguments yield -1 (or 0 for sizes).
package faces

// Separator marks the end of a face in a coordIndex array. It is also the
// owning face reported by CornerFace for separator positions.
const Separator = -1

// Faces is the connectivity table for one coordIndex array.
type Faces struct {
	nVertices       int
	coordIndex      []int
	faceFirstCorner []int
	cornerToFace    []int
}

// New builds the table from a declared vertex count and a coordIndex array.
// The array is copied; the caller may reuse it afterwards.
//
// The resolved vertex count is the larger of nV and one plus the largest
// index in coordIndex. Every separator ends a face, and a trailing run with
// no separator after it is a face too. Runs of length zero (a leading
// separator, or two separators in a row) are faces with no corners.
func New(nV int, coordIndex []int) *Faces {
	f := &Faces{
		coordIndex: append([]int(nil), coordIndex...),
	}
	ci := f.coordIndex

	nFaces := 0
	maxVertex := -1
	for _, v := range ci {
		if v == Separator {
			nFaces++
		} else if v > maxVertex {
			maxVertex = v
		}
	}
	if len(ci) > 0 && ci[len(ci)-1] != Separator {
		nFaces++
	}

	f.nVertices = nV
	if maxVertex+1 > f.nVertices {
		f.nVertices = maxVertex + 1
	}

	f.faceFirstCorner = make([]int, nFaces)
	for i := range f.faceFirstCorner {
		f.faceFirstCorner[i] = -1
	}

	// One counter drives both maps, so a face's first corner is always a
	// corner that CornerFace attributes to that face.
	f.cornerToFace = make([]int, len(ci))
	face := 0
	atStart := true
	for i, v := range ci {
		if v == Separator {
			f.cornerToFace[i] = Separator
			face++
			atStart = true
			continue
		}
		if atStart {
			f.faceFirstCorner[face] = i
			atStart = false
		}
		f.cornerToFace[i] = face
	}

	return f
}

// VertexCount returns the resolved number of vertices.
func (f *Faces) VertexCount() int {
	return f.nVertices
}

// FaceCount returns the number of faces.
func (f *Faces) FaceCount() int {
	return len(f.faceFirstCorner)
}

// CornerCount returns the length of the coordIndex array, separators included.
func (f *Faces) CornerCount() int {
	return len(f.coordIndex)
}

// FaceSize returns the number of corners of face iF, or 0 if iF is out of range.
func (f *Faces) FaceSize(iF int) int {
	if iF < 0 || iF >= len(f.faceFirstCorner) {
		return 0
	}
	start := f.faceFirstCorner[iF]
	if start < 0 {
		return 0
	}
	n := 0
	for i := start; i < len(f.coordIndex) && f.coordIndex[i] != Separator; i++ {
		n++
	}
	return n
}

// FaceFirstCorner returns the position of the first corner of face iF. It
// returns -1 if iF is out of range or the face has no corners.
func (f *Faces) FaceFirstCorner(iF int) int {
	if iF < 0 || iF >= len(f.faceFirstCorner) {
		return -1
	}
	return f.faceFirstCorner[iF]
}

// FaceVertex returns the vertex index of the j-th corner of face iF, or -1
// if iF is out of range or j is not in [0, FaceSize(iF)).
func (f *Faces) FaceVertex(iF, j int) int {
	if j < 0 || j >= f.FaceSize(iF) {
		return -1
	}
	return f.coordIndex[f.faceFirstCorner[iF]+j]
}

// CornerFace returns the face that owns corner iC, Separator if iC holds a
// separator, or -1 if iC is out of range.
func (f *Faces) CornerFace(iC int) int {
	if iC < 0 || iC >= len(f.coordIndex) {
		return -1
	}
	return f.cornerToFace[iC]
}

// NextCorner returns the corner after iC within the same face, wrapping to
// the face's first corner after its last. It returns -1 if iC is out of
// range or holds a separator.
func (f *Faces) NextCorner(iC int) int {
	if iC < 0 || iC >= len(f.coordIndex) || f.coordIndex[iC] == Separator {
		return -1
	}
	next := iC + 1
	if next < len(f.coordIndex) && f.coordIndex[next] != Separator {
		return next
	}
	return f.faceFirstCorner[f.cornerToFace[iC]]
}
