package scene

import (
	"fmt"

	"github.com/chazu/wrlmesh/pkg/faces"
)

// ValidationSeverity indicates whether a validation finding makes a mesh
// unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // mesh cannot be used as-is
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Path names the
// node, e.g. "Shape[0]/IndexedFaceSet".
type ValidationError struct {
	Path     string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// Validate checks every shape in the scene and returns its findings. An
// empty slice means every mesh is well formed. Validate never mutates g.
func Validate(g *SceneGraph) []ValidationError {
	var errs []ValidationError
	if g == nil {
		return errs
	}
	for i, n := range g.Shapes() {
		path := fmt.Sprintf("Shape[%d]", i)
		if n.Name != "" {
			path = fmt.Sprintf("Shape %q", n.Name)
		}
		errs = append(errs, validateShape(path, n)...)
	}
	return errs
}

func validateShape(path string, n *Node) []ValidationError {
	shape, _ := n.Shape()
	if shape.Geometry == nil {
		return []ValidationError{{
			Path:     path,
			Message:  "shape has no geometry",
			Severity: SeverityWarning,
		}}
	}
	ifs, ok := shape.Geometry.IndexedFaceSet()
	if !ok {
		return nil
	}
	return ValidateIndexedFaceSet(path+"/IndexedFaceSet", ifs)
}

// ValidateIndexedFaceSet checks index ranges and normal bindings of a
// single mesh.
func ValidateIndexedFaceSet(path string, ifs *IndexedFaceSetData) []ValidationError {
	var errs []ValidationError

	if len(ifs.Coord)%3 != 0 {
		errs = append(errs, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("coord has %d floats, not a multiple of 3", len(ifs.Coord)),
			Severity: SeverityError,
		})
	}
	if len(ifs.Normal)%3 != 0 {
		errs = append(errs, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("normal has %d floats, not a multiple of 3", len(ifs.Normal)),
			Severity: SeverityError,
		})
	}

	nV := ifs.VertexCount()
	for i, idx := range ifs.CoordIndex {
		if idx == faces.Separator {
			continue
		}
		if idx < 0 || idx >= nV {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("coordIndex[%d] = %d is outside [0, %d)", i, idx, nV),
				Severity: SeverityError,
			})
		}
	}

	f := ifs.Faces()
	if f.FaceCount() == 0 {
		errs = append(errs, ValidationError{
			Path:     path,
			Message:  "mesh has no faces",
			Severity: SeverityWarning,
		})
	}
	degenerate := 0
	for iF := 0; iF < f.FaceCount(); iF++ {
		if f.FaceSize(iF) < 3 {
			degenerate++
		}
	}
	if degenerate > 0 {
		errs = append(errs, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("%d faces have fewer than 3 corners", degenerate),
			Severity: SeverityWarning,
		})
	}

	errs = append(errs, validateNormals(path, ifs, f)...)
	return errs
}

func validateNormals(path string, ifs *IndexedFaceSetData, f *faces.Faces) []ValidationError {
	if len(ifs.Normal) == 0 {
		return nil
	}
	var errs []ValidationError
	nN := len(ifs.Normal) / 3
	for i, idx := range ifs.NormalIndex {
		if idx != faces.Separator && (idx < 0 || idx >= nN) {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("normalIndex[%d] = %d is outside [0, %d)", i, idx, nN),
				Severity: SeverityError,
			})
		}
	}

	if ifs.NormalPerVertex {
		if len(ifs.NormalIndex) == 0 && nN < f.VertexCount() {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("%d normals bound per vertex for %d vertices", nN, f.VertexCount()),
				Severity: SeverityError,
			})
		}
		return errs
	}
	if got := ifs.NormalCount(); got != f.FaceCount() {
		errs = append(errs, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("%d normals bound per face for %d faces", got, f.FaceCount()),
			Severity: SeverityError,
		})
	}
	return errs
}
