package scene

import "fmt"

// SceneGraph is the root of a scene: an ordered list of top-level nodes.
type SceneGraph struct {
	URL       string           `json:"url,omitempty"`
	Children  []*Node          `json:"children"`
	NameIndex map[string]*Node `json:"-"`
}

// New creates an empty SceneGraph.
func New() *SceneGraph {
	return &SceneGraph{
		NameIndex: make(map[string]*Node),
	}
}

// Clear removes all children.
func (g *SceneGraph) Clear() {
	g.Children = nil
	g.NameIndex = make(map[string]*Node)
}

// SetURL records where the scene was loaded from.
func (g *SceneGraph) SetURL(url string) {
	g.URL = url
}

// AddChild appends a top-level node and indexes every named node beneath
// it. Later nodes shadow earlier ones with the same name.
func (g *SceneGraph) AddChild(n *Node) {
	g.Children = append(g.Children, n)
	walkNode(n, func(c *Node) bool {
		if c.Name != "" {
			g.NameIndex[c.Name] = c
		}
		return true
	})
}

// NumChildren returns the number of top-level nodes.
func (g *SceneGraph) NumChildren() int {
	return len(g.Children)
}

// Child returns the i-th top-level node, or nil if i is out of range.
func (g *SceneGraph) Child(i int) *Node {
	if i < 0 || i >= len(g.Children) {
		return nil
	}
	return g.Children[i]
}

// Lookup returns the node with the given name, or nil.
func (g *SceneGraph) Lookup(name string) *Node {
	return g.NameIndex[name]
}

// MustLookup returns the node with the given name, or panics.
func (g *SceneGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Walk visits every node depth-first, including the appearance, material
// and geometry fields of shapes. Returning false from fn skips the node's
// descendants.
func (g *SceneGraph) Walk(fn func(n *Node) bool) {
	for _, c := range g.Children {
		walkNode(c, fn)
	}
}

func walkNode(n *Node, fn func(n *Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch d := n.Data.(type) {
	case *ShapeData:
		walkNode(d.Appearance, fn)
		walkNode(d.Geometry, fn)
	case *AppearanceData:
		walkNode(d.Material, fn)
	}
	for _, c := range n.Children {
		walkNode(c, fn)
	}
}

// NodeCount returns the total number of nodes reachable from the root.
func (g *SceneGraph) NodeCount() int {
	count := 0
	g.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Shapes returns every Shape node in walk order.
func (g *SceneGraph) Shapes() []*Node {
	var shapes []*Node
	g.Walk(func(n *Node) bool {
		if n.IsShape() {
			shapes = append(shapes, n)
		}
		return true
	})
	return shapes
}

// SingleMesh returns the IndexedFaceSet of a scene that consists of exactly
// one Shape whose geometry is an IndexedFaceSet, as produced by the STL
// loader. It returns an error describing the first condition that fails.
func (g *SceneGraph) SingleMesh() (*Node, *IndexedFaceSetData, error) {
	if g.NumChildren() != 1 {
		return nil, nil, fmt.Errorf("scene has %d top-level nodes, want 1", g.NumChildren())
	}
	child := g.Child(0)
	shape, ok := child.Shape()
	if !ok {
		return nil, nil, fmt.Errorf("top-level node is a %s, want Shape", kindOf(child))
	}
	ifs, ok := shape.Geometry.IndexedFaceSet()
	if !ok {
		return nil, nil, fmt.Errorf("shape geometry is a %s, want IndexedFaceSet", kindOf(shape.Geometry))
	}
	return shape.Geometry, ifs, nil
}

func kindOf(n *Node) string {
	if n == nil {
		return "nil node"
	}
	return n.Kind.String()
}
