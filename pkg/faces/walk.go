package faces

// CornerVertex returns the vertex index held by corner iC, or -1 if iC is
// out of range or holds a separator.
func (f *Faces) CornerVertex(iC int) int {
	if iC < 0 || iC >= len(f.coordIndex) {
		return -1
	}
	return f.coordIndex[iC]
}

// FaceCorners returns the corners of face iF in traversal order, starting at
// its first corner. It returns nil for empty or out-of-range faces.
func (f *Faces) FaceCorners(iF int) []int {
	first := f.FaceFirstCorner(iF)
	if first < 0 {
		return nil
	}
	corners := make([]int, 0, f.FaceSize(iF))
	for c := first; ; {
		corners = append(corners, c)
		c = f.NextCorner(c)
		if c == first || c < 0 {
			break
		}
	}
	return corners
}

// MaxFaceSize returns the size of the largest face, or 0 if there are none.
func (f *Faces) MaxFaceSize() int {
	largest := 0
	for iF := range f.faceFirstCorner {
		if n := f.FaceSize(iF); n > largest {
			largest = n
		}
	}
	return largest
}

// IsTriangleMesh reports whether every face has exactly three corners.
// A table with no faces is a triangle mesh.
func (f *Faces) IsTriangleMesh() bool {
	for iF := range f.faceFirstCorner {
		if f.FaceSize(iF) != 3 {
			return false
		}
	}
	return true
}

// SizeHistogram maps each face size to the number of faces of that size.
func (f *Faces) SizeHistogram() map[int]int {
	h := make(map[int]int)
	for iF := range f.faceFirstCorner {
		h[f.FaceSize(iF)]++
	}
	return h
}
