package faces_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/chazu/wrlmesh/pkg/faces"
)

func TestTwoTriangles(t *testing.T) {
	f := faces.New(0, []int{0, 1, 2, -1, 2, 3, 0, -1})

	if got := f.FaceCount(); got != 2 {
		t.Fatalf("FaceCount = %d, want 2", got)
	}
	if got := f.VertexCount(); got != 4 {
		t.Errorf("VertexCount = %d, want 4", got)
	}
	if got := f.CornerCount(); got != 8 {
		t.Errorf("CornerCount = %d, want 8", got)
	}
	for iF := 0; iF < 2; iF++ {
		if got := f.FaceSize(iF); got != 3 {
			t.Errorf("FaceSize(%d) = %d, want 3", iF, got)
		}
	}
	if got := f.FaceVertex(1, 2); got != 0 {
		t.Errorf("FaceVertex(1, 2) = %d, want 0", got)
	}
	if got := f.NextCorner(6); got != 4 {
		t.Errorf("NextCorner(6) = %d, want 4 (wrap to first corner of face 1)", got)
	}
	if got := f.NextCorner(4); got != 5 {
		t.Errorf("NextCorner(4) = %d, want 5", got)
	}
	if got := f.CornerFace(3); got != faces.Separator {
		t.Errorf("CornerFace(3) = %d, want Separator", got)
	}
	if got := f.CornerFace(5); got != 1 {
		t.Errorf("CornerFace(5) = %d, want 1", got)
	}
}

func TestLeadingSeparator(t *testing.T) {
	f := faces.New(0, []int{-1, 0, 1, 2, -1})

	if got := f.FaceCount(); got != 2 {
		t.Fatalf("FaceCount = %d, want 2", got)
	}

	// Face 0 is the empty run before the leading separator.
	if got := f.FaceSize(0); got != 0 {
		t.Errorf("FaceSize(0) = %d, want 0", got)
	}
	if got := f.FaceFirstCorner(0); got != -1 {
		t.Errorf("FaceFirstCorner(0) = %d, want -1", got)
	}
	if got := f.FaceVertex(0, 0); got != -1 {
		t.Errorf("FaceVertex(0, 0) = %d, want -1", got)
	}

	if got := f.FaceSize(1); got != 3 {
		t.Errorf("FaceSize(1) = %d, want 3", got)
	}
	if got := f.FaceFirstCorner(1); got != 1 {
		t.Errorf("FaceFirstCorner(1) = %d, want 1", got)
	}
	for c := 1; c <= 3; c++ {
		if got := f.CornerFace(c); got != 1 {
			t.Errorf("CornerFace(%d) = %d, want 1", c, got)
		}
	}
	if got := f.NextCorner(3); got != 1 {
		t.Errorf("NextCorner(3) = %d, want 1", got)
	}
	if got := f.CornerFace(0); got != faces.Separator {
		t.Errorf("CornerFace(0) = %d, want Separator", got)
	}
	if got := f.NextCorner(0); got != -1 {
		t.Errorf("NextCorner(0) = %d, want -1", got)
	}
}

func TestEmptySequence(t *testing.T) {
	f := faces.New(7, nil)

	if f.FaceCount() != 0 {
		t.Errorf("FaceCount = %d, want 0", f.FaceCount())
	}
	if f.CornerCount() != 0 {
		t.Errorf("CornerCount = %d, want 0", f.CornerCount())
	}
	if f.VertexCount() != 7 {
		t.Errorf("VertexCount = %d, want declared 7", f.VertexCount())
	}
	if f.FaceSize(0) != 0 || f.FaceFirstCorner(0) != -1 || f.NextCorner(0) != -1 || f.CornerFace(0) != -1 {
		t.Error("queries on an empty table should return out-of-range values")
	}
	if !f.IsTriangleMesh() {
		t.Error("empty table should count as a triangle mesh")
	}
}

func TestSeparatorsOnly(t *testing.T) {
	f := faces.New(3, []int{-1, -1})

	if f.FaceCount() != 2 {
		t.Errorf("FaceCount = %d, want 2", f.FaceCount())
	}
	if f.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", f.VertexCount())
	}
	for iF := 0; iF < 2; iF++ {
		if f.FaceSize(iF) != 0 {
			t.Errorf("FaceSize(%d) = %d, want 0", iF, f.FaceSize(iF))
		}
	}
}

func TestUnterminatedFace(t *testing.T) {
	f := faces.New(0, []int{0, 1, 2, 3})

	if f.FaceCount() != 1 {
		t.Fatalf("FaceCount = %d, want 1", f.FaceCount())
	}
	if f.FaceSize(0) != 4 {
		t.Errorf("FaceSize(0) = %d, want 4", f.FaceSize(0))
	}
	if got := f.NextCorner(3); got != 0 {
		t.Errorf("NextCorner(3) = %d, want 0 (wrap at end of array)", got)
	}
}

func TestTrailingRunAfterSeparator(t *testing.T) {
	f := faces.New(0, []int{0, 1, 2, -1, 3, 4, 5, 6})

	if f.FaceCount() != 2 {
		t.Fatalf("FaceCount = %d, want 2", f.FaceCount())
	}
	if f.FaceSize(1) != 4 {
		t.Errorf("FaceSize(1) = %d, want 4", f.FaceSize(1))
	}
	if f.NextCorner(7) != 4 {
		t.Errorf("NextCorner(7) = %d, want 4", f.NextCorner(7))
	}
}

func TestDoubledSeparator(t *testing.T) {
	f := faces.New(0, []int{0, 1, 2, -1, -1, 3, 4, 5, -1})

	if f.FaceCount() != 3 {
		t.Fatalf("FaceCount = %d, want 3", f.FaceCount())
	}
	if f.FaceSize(1) != 0 {
		t.Errorf("FaceSize(1) = %d, want 0", f.FaceSize(1))
	}
	if f.FaceFirstCorner(2) != 5 {
		t.Errorf("FaceFirstCorner(2) = %d, want 5", f.FaceFirstCorner(2))
	}
	if f.CornerFace(6) != 2 {
		t.Errorf("CornerFace(6) = %d, want 2", f.CornerFace(6))
	}
}

func TestDeclaredVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		nV       int
		index    []int
		wantVert int
	}{
		{"declared larger", 10, []int{0, 1, 2, -1}, 10},
		{"indices larger", 2, []int{0, 1, 5, -1}, 6},
		{"equal", 3, []int{0, 1, 2, -1}, 3},
		{"no indices", 4, []int{-1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := faces.New(tt.nV, tt.index)
			if got := f.VertexCount(); got != tt.wantVert {
				t.Errorf("VertexCount = %d, want %d", got, tt.wantVert)
			}
		})
	}
}

func TestOutOfRangeQueries(t *testing.T) {
	f := faces.New(0, []int{0, 1, 2, -1})

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"FaceSize(-1)", f.FaceSize(-1), 0},
		{"FaceSize(1)", f.FaceSize(1), 0},
		{"FaceFirstCorner(-1)", f.FaceFirstCorner(-1), -1},
		{"FaceFirstCorner(1)", f.FaceFirstCorner(1), -1},
		{"FaceVertex(0,-1)", f.FaceVertex(0, -1), -1},
		{"FaceVertex(0,3)", f.FaceVertex(0, 3), -1},
		{"FaceVertex(1,0)", f.FaceVertex(1, 0), -1},
		{"CornerFace(-1)", f.CornerFace(-1), -1},
		{"CornerFace(4)", f.CornerFace(4), -1},
		{"NextCorner(-1)", f.NextCorner(-1), -1},
		{"NextCorner(3)", f.NextCorner(3), -1},
		{"NextCorner(4)", f.NextCorner(4), -1},
		{"CornerVertex(3)", f.CornerVertex(3), -1},
		{"CornerVertex(9)", f.CornerVertex(9), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestInputNotAliased(t *testing.T) {
	index := []int{0, 1, 2, -1}
	f := faces.New(0, index)
	index[1] = 9

	if got := f.FaceVertex(0, 1); got != 1 {
		t.Errorf("FaceVertex(0, 1) = %d after caller mutation, want 1", got)
	}
}

func TestFaceCornersAndHistogram(t *testing.T) {
	f := faces.New(0, []int{0, 1, 2, 3, -1, 4, 5, 6, -1, 7, 8, 9, -1})

	corners := f.FaceCorners(1)
	want := []int{5, 6, 7}
	if len(corners) != len(want) {
		t.Fatalf("FaceCorners(1) = %v, want %v", corners, want)
	}
	for i := range want {
		if corners[i] != want[i] {
			t.Errorf("FaceCorners(1)[%d] = %d, want %d", i, corners[i], want[i])
		}
	}
	if f.FaceCorners(5) != nil {
		t.Error("FaceCorners on missing face should be nil")
	}

	if f.MaxFaceSize() != 4 {
		t.Errorf("MaxFaceSize = %d, want 4", f.MaxFaceSize())
	}
	if f.IsTriangleMesh() {
		t.Error("mesh with a quad should not be a triangle mesh")
	}
	h := f.SizeHistogram()
	if h[3] != 2 || h[4] != 1 {
		t.Errorf("SizeHistogram = %v, want map[3:2 4:1]", h)
	}
}

// randomIndex generates a coordIndex array of n faces with sizes in [1, 6],
// optionally leaving the last face unterminated.
func randomIndex(rng *rand.Rand, n, nV int, terminated bool) []int {
	var index []int
	for i := 0; i < n; i++ {
		size := 1 + rng.Intn(6)
		for j := 0; j < size; j++ {
			index = append(index, rng.Intn(nV))
		}
		if terminated || i < n-1 {
			index = append(index, faces.Separator)
		}
	}
	return index
}

func countSeparators(index []int) int {
	n := 0
	for _, v := range index {
		if v == faces.Separator {
			n++
		}
	}
	return n
}

func TestRandomProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		declared := rng.Intn(20)
		index := randomIndex(rng, 1+rng.Intn(30), 1+rng.Intn(40), true)
		f := faces.New(declared, index)

		if got, want := f.FaceCount(), countSeparators(index); got != want {
			t.Fatalf("trial %d: FaceCount = %d, want %d separators", trial, got, want)
		}

		maxV := -1
		for _, v := range index {
			if v > maxV {
				maxV = v
			}
		}
		if f.VertexCount() < declared || f.VertexCount() < maxV+1 {
			t.Fatalf("trial %d: VertexCount %d below declared %d or max+1 %d",
				trial, f.VertexCount(), declared, maxV+1)
		}

		for iF := 0; iF < f.FaceCount(); iF++ {
			size := f.FaceSize(iF)
			first := f.FaceFirstCorner(iF)
			c := first
			for step := 0; step < size; step++ {
				if f.CornerFace(c) != iF {
					t.Fatalf("trial %d: CornerFace(%d) = %d, want %d", trial, c, f.CornerFace(c), iF)
				}
				c = f.NextCorner(c)
			}
			if c != first {
				t.Fatalf("trial %d: face %d traversal ended at %d after %d steps, want %d",
					trial, iF, c, size, first)
			}

			for j := -1; j <= size; j++ {
				defined := f.FaceVertex(iF, j) != -1
				if defined != (j >= 0 && j < size) {
					t.Fatalf("trial %d: FaceVertex(%d, %d) defined=%v with size %d",
						trial, iF, j, defined, size)
				}
			}
		}
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	index := randomIndex(rng, 25, 30, false)

	a := faces.New(5, index)
	b := faces.New(5, index)

	if a.FaceCount() != b.FaceCount() || a.VertexCount() != b.VertexCount() || a.CornerCount() != b.CornerCount() {
		t.Fatal("counts differ between rebuilds")
	}
	for iF := -1; iF <= a.FaceCount(); iF++ {
		if a.FaceSize(iF) != b.FaceSize(iF) || a.FaceFirstCorner(iF) != b.FaceFirstCorner(iF) {
			t.Fatalf("face %d differs between rebuilds", iF)
		}
		for j := -1; j <= a.FaceSize(iF); j++ {
			if a.FaceVertex(iF, j) != b.FaceVertex(iF, j) {
				t.Fatalf("FaceVertex(%d, %d) differs between rebuilds", iF, j)
			}
		}
	}
	for c := -1; c <= a.CornerCount(); c++ {
		if a.CornerFace(c) != b.CornerFace(c) || a.NextCorner(c) != b.NextCorner(c) {
			t.Fatalf("corner %d differs between rebuilds", c)
		}
	}
}

func TestConcurrentReaders(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	f := faces.New(0, randomIndex(rng, 100, 50, true))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iF := 0; iF < f.FaceCount(); iF++ {
				if len(f.FaceCorners(iF)) != f.FaceSize(iF) {
					t.Errorf("face %d: corner walk length mismatch", iF)
					return
				}
			}
		}()
	}
	wg.Wait()
}
