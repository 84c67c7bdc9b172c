package scene

// NodeKind enumerates the types of nodes in a scene graph.
type NodeKind int

const (
	NodeGroup          NodeKind = iota // container of child nodes
	NodeShape                          // appearance + geometry pair
	NodeAppearance                     // material holder
	NodeMaterial                       // surface colors
	NodeIndexedFaceSet                 // polygon mesh geometry
)

func (k NodeKind) String() string {
	switch k {
	case NodeGroup:
		return "Group"
	case NodeShape:
		return "Shape"
	case NodeAppearance:
		return "Appearance"
	case NodeMaterial:
		return "Material"
	case NodeIndexedFaceSet:
		return "IndexedFaceSet"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph. Kind selects which
// NodeData payload is stored in Data.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []*Node  `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// IsShape reports whether n is a Shape node.
func (n *Node) IsShape() bool {
	_, ok := n.Shape()
	return ok
}

// IsIndexedFaceSet reports whether n is an IndexedFaceSet node.
func (n *Node) IsIndexedFaceSet() bool {
	_, ok := n.IndexedFaceSet()
	return ok
}

// Shape returns the shape payload of n.
func (n *Node) Shape() (*ShapeData, bool) {
	if n == nil || n.Kind != NodeShape {
		return nil, false
	}
	d, ok := n.Data.(*ShapeData)
	return d, ok
}

// Appearance returns the appearance payload of n.
func (n *Node) Appearance() (*AppearanceData, bool) {
	if n == nil || n.Kind != NodeAppearance {
		return nil, false
	}
	d, ok := n.Data.(*AppearanceData)
	return d, ok
}

// Material returns the material payload of n.
func (n *Node) Material() (*MaterialData, bool) {
	if n == nil || n.Kind != NodeMaterial {
		return nil, false
	}
	d, ok := n.Data.(*MaterialData)
	return d, ok
}

// IndexedFaceSet returns the mesh payload of n.
func (n *Node) IndexedFaceSet() (*IndexedFaceSetData, bool) {
	if n == nil || n.Kind != NodeIndexedFaceSet {
		return nil, false
	}
	d, ok := n.Data.(*IndexedFaceSetData)
	return d, ok
}
