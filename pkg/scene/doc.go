// Package scene defines the scene-graph containers that hold mesh data.
// A SceneGraph owns a list of child nodes; shapes pair an appearance with a
// geometry node, and IndexedFaceSet geometry carries the flat coord and
// coordIndex arrays consumed by package faces.
package scene
