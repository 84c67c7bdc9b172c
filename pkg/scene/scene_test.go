package scene_test

import (
	"strings"
	"testing"

	"github.com/chazu/wrlmesh/pkg/scene"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind scene.NodeKind
		want string
	}{
		{scene.NodeGroup, "Group"},
		{scene.NodeShape, "Shape"},
		{scene.NodeAppearance, "Appearance"},
		{scene.NodeMaterial, "Material"},
		{scene.NodeIndexedFaceSet, "IndexedFaceSet"},
		{scene.NodeKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapabilityChecks(t *testing.T) {
	shape, _ := scene.NewMeshShape("part")
	sd, ok := shape.Shape()
	if !ok {
		t.Fatal("NewMeshShape should return a Shape node")
	}
	if !sd.Geometry.IsIndexedFaceSet() {
		t.Error("mesh shape geometry should be an IndexedFaceSet")
	}
	if sd.Geometry.IsShape() {
		t.Error("IndexedFaceSet should not report IsShape")
	}
	ad, ok := sd.Appearance.Appearance()
	if !ok {
		t.Fatal("mesh shape should have an Appearance")
	}
	md, ok := ad.Material.Material()
	if !ok {
		t.Fatal("appearance should have a Material")
	}
	if md.DiffuseColor != (scene.Color{R: 0.8, G: 0.8, B: 0.8}) {
		t.Errorf("default diffuse color = %v", md.DiffuseColor)
	}

	var nilNode *scene.Node
	if nilNode.IsShape() || nilNode.IsIndexedFaceSet() {
		t.Error("nil node should fail every capability check")
	}
}

func TestIndexedFaceSetDefaults(t *testing.T) {
	n := scene.NewIndexedFaceSet("mesh")
	ifs, ok := n.IndexedFaceSet()
	if !ok {
		t.Fatal("expected IndexedFaceSet payload")
	}
	if !ifs.NormalPerVertex || !ifs.CCW || !ifs.Convex || !ifs.Solid {
		t.Errorf("unexpected defaults: %+v", ifs)
	}
}

func TestSetterNoOpOnWrongKind(t *testing.T) {
	m := scene.NewMaterial()
	m.SetGeometry(scene.NewIndexedFaceSet(""))
	m.SetMaterial(scene.NewMaterial())
	if _, ok := m.Material(); !ok {
		t.Error("setters must not change the payload of a Material node")
	}
}

func TestSceneGraphChildrenAndLookup(t *testing.T) {
	g := scene.New()
	shape, _ := scene.NewMeshShape("bunny")
	g.AddChild(shape)
	g.AddChild(scene.NewGroup("empty"))

	if g.NumChildren() != 2 {
		t.Fatalf("NumChildren = %d, want 2", g.NumChildren())
	}
	if g.Child(0) != shape {
		t.Error("Child(0) should be the shape")
	}
	if g.Child(2) != nil || g.Child(-1) != nil {
		t.Error("out-of-range Child should be nil")
	}
	// The shape and its IndexedFaceSet share a name; the deeper node wins.
	if n := g.Lookup("bunny"); n == nil || !n.IsIndexedFaceSet() {
		t.Errorf("Lookup(bunny) = %v, want the IndexedFaceSet", n)
	}
	if g.Lookup("missing") != nil {
		t.Error("Lookup(missing) should be nil")
	}

	// Shape, Appearance, Material, IndexedFaceSet, Group.
	if got := g.NodeCount(); got != 5 {
		t.Errorf("NodeCount = %d, want 5", got)
	}

	g.SetURL("file.stl")
	g.Clear()
	if g.NumChildren() != 0 || g.Lookup("bunny") != nil {
		t.Error("Clear should remove children and names")
	}
	if g.URL != "file.stl" {
		t.Error("Clear should keep the URL")
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(r.(string), "missing") {
			t.Errorf("panic message %q should name the node", r)
		}
	}()
	scene.New().MustLookup("missing")
}

func TestWalkSkipsDescendants(t *testing.T) {
	g := scene.New()
	shape, _ := scene.NewMeshShape("a")
	g.AddChild(scene.NewGroup("outer", shape))

	var visited []scene.NodeKind
	g.Walk(func(n *scene.Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != scene.NodeShape
	})
	if len(visited) != 2 || visited[0] != scene.NodeGroup || visited[1] != scene.NodeShape {
		t.Errorf("visited = %v, want [Group Shape]", visited)
	}
}

func TestSingleMesh(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		g := scene.New()
		shape, ifs := scene.NewMeshShape("m")
		g.AddChild(shape)
		node, got, err := g.SingleMesh()
		if err != nil {
			t.Fatalf("SingleMesh: %v", err)
		}
		if got != ifs || node.Name != "m" {
			t.Error("SingleMesh returned the wrong mesh")
		}
	})

	tests := []struct {
		name  string
		build func() *scene.SceneGraph
		want  string
	}{
		{"empty", scene.New, "0 top-level nodes"},
		{"two shapes", func() *scene.SceneGraph {
			g := scene.New()
			a, _ := scene.NewMeshShape("a")
			b, _ := scene.NewMeshShape("b")
			g.AddChild(a)
			g.AddChild(b)
			return g
		}, "2 top-level nodes"},
		{"group child", func() *scene.SceneGraph {
			g := scene.New()
			g.AddChild(scene.NewGroup("g"))
			return g
		}, "Group, want Shape"},
		{"no geometry", func() *scene.SceneGraph {
			g := scene.New()
			g.AddChild(scene.NewShape("s"))
			return g
		}, "nil node"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.build().SingleMesh()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}
