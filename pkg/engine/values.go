package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/wrlmesh/pkg/kernel"
	"github.com/chazu/wrlmesh/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	x, y, z float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.x, v.y, v.z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpMaterial struct {
	data scene.MaterialData
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	c := m.data.DiffuseColor
	return fmt.Sprintf("(material :diffuse (vec3 %g %g %g))", c.R, c.G, c.B)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpSolid is an unmeshed kernel solid.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	lo, hi := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", lo, hi)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpNode refers to a scene node: an IndexedFaceSet or a Shape.
type sexpNode struct {
	node *scene.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	if n.node.Name != "" {
		return fmt.Sprintf("(%s %q)", n.node.Kind, n.node.Name)
	}
	return fmt.Sprintf("(%s)", n.node.Kind)
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string and returns its
// name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A keyword
// is followed by its value unless it is last, in which case its value is
// SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// arg returns the keyword argument named kw, or the positional argument at
// pos when the keyword is absent and pos is in range.
func (a kwArgs) arg(kw string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[kw]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toPositive(s zygo.Sexp) (float64, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("must be positive, got %g", f)
	}
	return f, nil
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", describe(s))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVec3(s zygo.Sexp) (*sexpVec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected vec3, got %s", describe(s))
}

func toColor(s zygo.Sexp) (scene.Color, error) {
	v, err := toVec3(s)
	if err != nil {
		return scene.Color{}, err
	}
	for _, c := range []float64{v.x, v.y, v.z} {
		if c < 0 || c > 1 {
			return scene.Color{}, fmt.Errorf("color component %g outside [0, 1]", c)
		}
	}
	return scene.Color{R: float32(v.x), G: float32(v.y), B: float32(v.z)}, nil
}

func toMaterial(s zygo.Sexp) (scene.MaterialData, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.data, nil
	}
	return scene.MaterialData{}, fmt.Errorf("expected material, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

// toMesh returns the IndexedFaceSet behind a mesh value or a Shape.
func toMesh(s zygo.Sexp) (*scene.IndexedFaceSetData, error) {
	n, ok := s.(*sexpNode)
	if !ok {
		return nil, fmt.Errorf("expected mesh or shape, got %s", describe(s))
	}
	node := n.node
	if sd, ok := node.Shape(); ok {
		node = sd.Geometry
	}
	ifs, ok := node.IndexedFaceSet()
	if !ok {
		return nil, fmt.Errorf("%s has no IndexedFaceSet geometry", n.SexpString(nil))
	}
	return ifs, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFloatTriples flattens a list of numbers, or a list of vec3 values, into
// xyz triples.
func toFloatTriples(s zygo.Sexp) ([]float32, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, len(items))
	for i, item := range items {
		if v, ok := item.(*sexpVec3); ok {
			out = append(out, float32(v.x), float32(v.y), float32(v.z))
			continue
		}
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, float32(f))
	}
	if len(out)%3 != 0 {
		return nil, fmt.Errorf("%d numbers is not a whole number of xyz triples", len(out))
	}
	return out, nil
}

func toIntList(s zygo.Sexp) ([]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func intSexp(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}
