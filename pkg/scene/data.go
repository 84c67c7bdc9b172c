package scene

// ---------------------------------------------------------------------------
// Shape
// ---------------------------------------------------------------------------

// ShapeData pairs an Appearance node with a geometry node. Either may be nil.
type ShapeData struct {
	Appearance *Node `json:"appearance,omitempty"`
	Geometry   *Node `json:"geometry,omitempty"`
}

func (*ShapeData) nodeData() {}

// NewShape returns an empty Shape node.
func NewShape(name string) *Node {
	return &Node{Kind: NodeShape, Name: name, Data: &ShapeData{}}
}

// SetAppearance sets the appearance field of a Shape node. It is a no-op
// on other node kinds.
func (n *Node) SetAppearance(a *Node) {
	if d, ok := n.Shape(); ok {
		d.Appearance = a
	}
}

// SetGeometry sets the geometry field of a Shape node. It is a no-op on
// other node kinds.
func (n *Node) SetGeometry(g *Node) {
	if d, ok := n.Shape(); ok {
		d.Geometry = g
	}
}

// ---------------------------------------------------------------------------
// Appearance
// ---------------------------------------------------------------------------

// AppearanceData holds the material of a shape.
type AppearanceData struct {
	Material *Node `json:"material,omitempty"`
}

func (*AppearanceData) nodeData() {}

// NewAppearance returns an Appearance node with no material.
func NewAppearance() *Node {
	return &Node{Kind: NodeAppearance, Data: &AppearanceData{}}
}

// SetMaterial sets the material field of an Appearance node. It is a no-op
// on other node kinds.
func (n *Node) SetMaterial(m *Node) {
	if d, ok := n.Appearance(); ok {
		d.Material = m
	}
}

// ---------------------------------------------------------------------------
// Material
// ---------------------------------------------------------------------------

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float32
}

// MaterialData describes surface colors. Zero values are not the defaults;
// use NewMaterial.
type MaterialData struct {
	DiffuseColor     Color   `json:"diffuse_color"`
	EmissiveColor    Color   `json:"emissive_color"`
	SpecularColor    Color   `json:"specular_color"`
	AmbientIntensity float32 `json:"ambient_intensity"`
	Shininess        float32 `json:"shininess"`
	Transparency     float32 `json:"transparency"`
}

func (*MaterialData) nodeData() {}

// DefaultMaterial returns the VRML97 Material defaults.
func DefaultMaterial() MaterialData {
	return MaterialData{
		DiffuseColor:     Color{0.8, 0.8, 0.8},
		AmbientIntensity: 0.2,
		Shininess:        0.2,
	}
}

// NewMaterial returns a Material node with default values.
func NewMaterial() *Node {
	m := DefaultMaterial()
	return &Node{Kind: NodeMaterial, Data: &m}
}

// ---------------------------------------------------------------------------
// IndexedFaceSet
// ---------------------------------------------------------------------------

// IndexedFaceSetData is polygon mesh geometry. Coord holds 3 floats per
// vertex. CoordIndex lists each face's vertex indices followed by -1.
// Normal holds 3 floats per normal; when NormalPerVertex is false there is
// one normal per face, selected through NormalIndex when it is non-empty.
type IndexedFaceSetData struct {
	Coord           []float32 `json:"coord"`
	CoordIndex      []int     `json:"coord_index"`
	Normal          []float32 `json:"normal,omitempty"`
	NormalIndex     []int     `json:"normal_index,omitempty"`
	NormalPerVertex bool      `json:"normal_per_vertex"`
	CCW             bool      `json:"ccw"`
	Convex          bool      `json:"convex"`
	Solid           bool      `json:"solid"`
	CreaseAngle     float32   `json:"crease_angle"`
}

func (*IndexedFaceSetData) nodeData() {}

// NewIndexedFaceSet returns an empty IndexedFaceSet node with VRML97 field
// defaults.
func NewIndexedFaceSet(name string) *Node {
	return &Node{
		Kind: NodeIndexedFaceSet,
		Name: name,
		Data: &IndexedFaceSetData{
			NormalPerVertex: true,
			CCW:             true,
			Convex:          true,
			Solid:           true,
		},
	}
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is the payload of a Group node; children live on the Node.
type GroupData struct{}

func (*GroupData) nodeData() {}

// NewGroup returns a Group node holding the given children.
func NewGroup(name string, children ...*Node) *Node {
	return &Node{Kind: NodeGroup, Name: name, Children: children, Data: &GroupData{}}
}

// NewMeshShape builds the Shape -> Appearance -> Material and
// Shape -> IndexedFaceSet subtree used for a single mesh, and returns the
// Shape node together with its mesh payload.
func NewMeshShape(name string) (*Node, *IndexedFaceSetData) {
	shape := NewShape(name)
	appearance := NewAppearance()
	appearance.SetMaterial(NewMaterial())
	shape.SetAppearance(appearance)

	ifsNode := NewIndexedFaceSet(name)
	shape.SetGeometry(ifsNode)
	ifs, _ := ifsNode.IndexedFaceSet()
	return shape, ifs
}
