package engine

import (
	"fmt"

	"github.com/chazu/wrlmesh/pkg/faces"
	"github.com/chazu/wrlmesh/pkg/kernel"
	"github.com/chazu/wrlmesh/pkg/scene"
	"github.com/chazu/wrlmesh/pkg/tessellate"
	zygo "github.com/glycerine/zygomys/zygo"
)

type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// builder holds what the builtins of one evaluation share.
type builder struct {
	g    *scene.SceneGraph
	k    kernel.Kernel
	opts tessellate.Options
}

// registerBuiltins installs the scene script builtins into env. Shapes
// created by the script are added to g. Source must be run through
// preprocessSource first so :keyword tokens reach the builtins as
// recognizable strings.
func registerBuiltins(env *zygo.Zlisp, g *scene.SceneGraph, k kernel.Kernel, opts tessellate.Options) {
	b := &builder{g: g, k: k, opts: opts}

	for name, fn := range map[string]builtinFunc{
		"vec3":             b.vec3,
		"material":         b.material,
		"indexed_face_set": b.indexedFaceSet,
		"box":              b.box,
		"cylinder":         b.cylinder,
		"sphere":           b.sphere,
		"union":            b.boolean("union", k.Union),
		"difference":       b.boolean("difference", k.Difference),
		"intersection":     b.boolean("intersection", k.Intersection),
		"translate":        b.transform("translate", k.Translate),
		"rotate":           b.transform("rotate", k.Rotate),
		"shape":            b.shape,
		"lookup":           b.lookup,
		"face_count":       b.faceCount,
		"face_size":        b.faceSize,
		"face_vertex":      b.faceVertex,
		"vertex_count":     b.vertexCount,
	} {
		env.AddFunction(name, fn)
	}
}

// (vec3 1 2 3)
func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var xyz [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
		}
		xyz[i] = f
	}
	return &sexpVec3{x: xyz[0], y: xyz[1], z: xyz[2]}, nil
}

// (material :diffuse (vec3 1 0 0) :emissive (vec3 ..) :specular (vec3 ..)
//           :ambient 0.2 :shininess 0.5 :transparency 0)
func (b *builder) material(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	m := scene.DefaultMaterial()

	colors := []struct {
		kw  string
		dst *scene.Color
	}{
		{"diffuse", &m.DiffuseColor},
		{"emissive", &m.EmissiveColor},
		{"specular", &m.SpecularColor},
	}
	for _, c := range colors {
		v, ok := pa.kw[c.kw]
		if !ok {
			continue
		}
		col, err := toColor(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %s: %w", c.kw, err)
		}
		*c.dst = col
	}

	scalars := []struct {
		kw  string
		dst *float32
	}{
		{"ambient", &m.AmbientIntensity},
		{"shininess", &m.Shininess},
		{"transparency", &m.Transparency},
	}
	for _, s := range scalars {
		v, ok := pa.kw[s.kw]
		if !ok {
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %s: %w", s.kw, err)
		}
		if f < 0 || f > 1 {
			return zygo.SexpNull, fmt.Errorf("material: %s: %g outside [0, 1]", s.kw, f)
		}
		*s.dst = float32(f)
	}

	return &sexpMaterial{data: m}, nil
}

// (indexed-face-set :name "tri" :coord [0 0 0 1 0 0 0 1 0] :coord-index [0 1 2 -1]
//                   :normal [..] :normal-index [..] :normals :per-face)
//
// Without :normal, one normal per face is computed from the geometry.
func (b *builder) indexedFaceSet(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)

	var meshName string
	if v, ok := pa.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("indexed-face-set: name: %w", err)
		}
		meshName = s
	}

	node := scene.NewIndexedFaceSet(meshName)
	ifs, _ := node.IndexedFaceSet()
	ifs.NormalPerVertex = false

	v, ok := pa.kw["coord"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("indexed-face-set: :coord is required")
	}
	coord, err := toFloatTriples(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("indexed-face-set: coord: %w", err)
	}
	ifs.Coord = coord

	v, ok = pa.kw["coord-index"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("indexed-face-set: :coord-index is required")
	}
	index, err := toIntList(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("indexed-face-set: coord-index: %w", err)
	}
	nV := ifs.VertexCount()
	for i, idx := range index {
		if idx != faces.Separator && (idx < 0 || idx >= nV) {
			return zygo.SexpNull, fmt.Errorf("indexed-face-set: coord-index entry %d is %d, mesh has %d vertices", i, idx, nV)
		}
	}
	ifs.CoordIndex = index

	if v, ok := pa.kw["normals"]; ok {
		binding, err := toKeywordString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("indexed-face-set: normals: %w", err)
		}
		switch binding {
		case "per-face":
			ifs.NormalPerVertex = false
		case "per-vertex":
			ifs.NormalPerVertex = true
		default:
			return zygo.SexpNull, fmt.Errorf("indexed-face-set: normals: %q is not :per-face or :per-vertex", binding)
		}
	}

	v, ok = pa.kw["normal"]
	if !ok {
		if ifs.NormalPerVertex {
			return zygo.SexpNull, fmt.Errorf("indexed-face-set: :per-vertex normals require :normal")
		}
		ifs.ComputeFaceNormals()
		return &sexpNode{node: node}, nil
	}
	normal, err := toFloatTriples(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("indexed-face-set: normal: %w", err)
	}
	ifs.Normal = normal

	if v, ok := pa.kw["normal-index"]; ok {
		nIndex, err := toIntList(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("indexed-face-set: normal-index: %w", err)
		}
		ifs.NormalIndex = nIndex
	}

	if errs := scene.ValidateIndexedFaceSet("", ifs); hasErrors(errs) {
		return zygo.SexpNull, fmt.Errorf("indexed-face-set: %s", firstError(errs).Message)
	}
	return &sexpNode{node: node}, nil
}

func hasErrors(errs []scene.ValidationError) bool {
	return firstError(errs) != nil
}

func firstError(errs []scene.ValidationError) *scene.ValidationError {
	for i := range errs {
		if errs[i].Severity == scene.SeverityError {
			return &errs[i]
		}
	}
	return nil
}

// (box :size (vec3 10 20 30)) or (box (vec3 10 20 30))
func (b *builder) box(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	v, ok := pa.arg("size", 0)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("box requires :size")
	}
	size, err := toVec3(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
	}
	if size.x <= 0 || size.y <= 0 || size.z <= 0 {
		return zygo.SexpNull, fmt.Errorf("box: size must be positive, got %s", size.SexpString(nil))
	}
	return &sexpSolid{solid: b.k.Box(size.x, size.y, size.z)}, nil
}

// (cylinder :height 10 :radius 2)
func (b *builder) cylinder(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var hr [2]float64
	for i, kw := range []string{"height", "radius"} {
		v, ok := pa.arg(kw, i)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires :%s", kw)
		}
		f, err := toPositive(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %s: %w", kw, err)
		}
		hr[i] = f
	}
	return &sexpSolid{solid: b.k.Cylinder(hr[0], hr[1])}, nil
}

// (sphere :radius 5)
func (b *builder) sphere(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	v, ok := pa.arg("radius", 0)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("sphere requires :radius")
	}
	r, err := toPositive(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
	}
	return &sexpSolid{solid: b.k.Sphere(r)}, nil
}

// (union a b c ...) folds left over two or more solids.
func (b *builder) boolean(op string, fn func(a, b kernel.Solid) kernel.Solid) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(args))
		}
		acc, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: argument 1: %w", op, err)
		}
		for i, arg := range args[1:] {
			s, err := toSolid(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", op, i+2, err)
			}
			acc = fn(acc, s)
		}
		return &sexpSolid{solid: acc}, nil
	}
}

// (translate s (vec3 1 2 3)), (rotate s (vec3 0 0 90))
func (b *builder) transform(op string, fn func(s kernel.Solid, x, y, z float64) kernel.Solid) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vec3", op)
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		v, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		return &sexpSolid{solid: fn(s, v.x, v.y, v.z)}, nil
	}
}

// (shape "name" geometry :material m) adds a Shape to the scene. Solids are
// meshed through the kernel; meshes are used as they are.
func (b *builder) shape(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 2 {
		return zygo.SexpNull, fmt.Errorf("shape requires a name and a geometry")
	}
	shapeName, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
	}

	var node *scene.Node
	switch geom := pa.positional[1].(type) {
	case *sexpSolid:
		node, err = tessellate.Shape(b.k, geom.solid, shapeName, b.opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape %q: %w", shapeName, err)
		}
	case *sexpNode:
		if !geom.node.IsIndexedFaceSet() {
			return zygo.SexpNull, fmt.Errorf("shape %q: geometry must be a mesh or solid, got %s", shapeName, geom.node.Kind)
		}
		if geom.node.Name == "" {
			geom.node.Name = shapeName
		}
		node = scene.NewShape(shapeName)
		appearance := scene.NewAppearance()
		appearance.SetMaterial(scene.NewMaterial())
		node.SetAppearance(appearance)
		node.SetGeometry(geom.node)
	default:
		return zygo.SexpNull, fmt.Errorf("shape %q: geometry must be a mesh or solid, got %s", shapeName, describe(geom))
	}

	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape %q: material: %w", shapeName, err)
		}
		sd, _ := node.Shape()
		ad, _ := sd.Appearance.Appearance()
		md, _ := ad.Material.Material()
		*md = m
	}

	b.g.AddChild(node)
	return &sexpNode{node: node}, nil
}

// (lookup "name") returns a previously created shape or mesh.
func (b *builder) lookup(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("lookup requires a name argument")
	}
	nodeName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("lookup: name: %w", err)
	}
	n := b.g.Lookup(nodeName)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("lookup: no shape or mesh named %q", nodeName)
	}
	return &sexpNode{node: n}, nil
}

func (b *builder) meshArg(op string, args []zygo.Sexp, want int) (*faces.Faces, []int, error) {
	if len(args) != want {
		return nil, nil, fmt.Errorf("%s requires %d arguments, got %d", op, want, len(args))
	}
	ifs, err := toMesh(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ints := make([]int, 0, want-1)
	for i, a := range args[1:] {
		n, err := toInt(a)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: argument %d: %w", op, i+2, err)
		}
		ints = append(ints, n)
	}
	return ifs.Faces(), ints, nil
}

// (face-count mesh)
func (b *builder) faceCount(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	f, _, err := b.meshArg("face-count", args, 1)
	if err != nil {
		return zygo.SexpNull, err
	}
	return intSexp(f.FaceCount()), nil
}

// (vertex-count mesh)
func (b *builder) vertexCount(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	f, _, err := b.meshArg("vertex-count", args, 1)
	if err != nil {
		return zygo.SexpNull, err
	}
	return intSexp(f.VertexCount()), nil
}

// (face-size mesh 0) is 0 for faces that do not exist.
func (b *builder) faceSize(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	f, ints, err := b.meshArg("face-size", args, 2)
	if err != nil {
		return zygo.SexpNull, err
	}
	return intSexp(f.FaceSize(ints[0])), nil
}

// (face-vertex mesh face j) is -1 when the corner does not exist.
func (b *builder) faceVertex(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	f, ints, err := b.meshArg("face-vertex", args, 3)
	if err != nil {
		return zygo.SexpNull, err
	}
	return intSexp(f.FaceVertex(ints[0], ints[1])), nil
}
