package main

import (
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/chazu/wrlmesh/pkg/engine"
	"github.com/chazu/wrlmesh/pkg/kernel/sdfx"
	"github.com/chazu/wrlmesh/pkg/scene"
	"github.com/chazu/wrlmesh/pkg/stl"
	"github.com/chazu/wrlmesh/pkg/tessellate"
)

// Config holds the settings the command line can change.
type Config struct {
	Timeout time.Duration // per script evaluation
	Cells   int           // marching cubes resolution
	NoWeld  bool          // keep kernel triangle soups unwelded
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Timeout: engine.EvalTimeout,
		Cells:   sdfx.DefaultMeshCells,
	}
}

// App wires the loaders, the script engine and the kernel together.
type App struct {
	engine *engine.Engine
}

// NewApp creates an App backed by the sdfx kernel.
func NewApp(cfg Config) *App {
	return &App{
		engine: engine.NewEngineWithOptions(sdfx.NewWithCells(cfg.Cells), engine.Options{
			Timeout:    cfg.Timeout,
			Tessellate: tessellate.Options{Weld: !cfg.NoWeld},
		}),
	}
}

// MeshInfo summarizes the connectivity of a single mesh.
type MeshInfo struct {
	Name        string
	Vertices    int
	Faces       int
	Corners     int
	MaxFaceSize int
	Triangles   bool
	Histogram   map[int]int // face size -> number of faces
	Findings    []scene.ValidationError
}

func meshInfo(name string, ifs *scene.IndexedFaceSetData) MeshInfo {
	f := ifs.Faces()
	return MeshInfo{
		Name:        name,
		Vertices:    f.VertexCount(),
		Faces:       f.FaceCount(),
		Corners:     f.CornerCount(),
		MaxFaceSize: f.MaxFaceSize(),
		Triangles:   f.IsTriangleMesh(),
		Histogram:   f.SizeHistogram(),
		Findings:    scene.ValidateIndexedFaceSet(name, ifs),
	}
}

// Print writes the summary in a human-readable form.
func (m MeshInfo) Print(w io.Writer) {
	name := m.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "mesh %s\n", name)
	fmt.Fprintf(w, "  vertices: %d\n", m.Vertices)
	fmt.Fprintf(w, "  faces:    %d\n", m.Faces)
	fmt.Fprintf(w, "  corners:  %d\n", m.Corners)
	fmt.Fprintf(w, "  triangle mesh: %v\n", m.Triangles)

	sizes := make([]int, 0, len(m.Histogram))
	for size := range m.Histogram {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		fmt.Fprintf(w, "  faces with %d corners: %d\n", size, m.Histogram[size])
	}
	for _, f := range m.Findings {
		fmt.Fprintf(w, "  %s\n", f.Error())
	}
}

// Info loads an STL file and summarizes its mesh.
func (a *App) Info(path string) (MeshInfo, error) {
	g, err := stl.LoadFile(path)
	if err != nil {
		return MeshInfo{}, err
	}
	node, ifs, err := g.SingleMesh()
	if err != nil {
		return MeshInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return meshInfo(node.Name, ifs), nil
}

// Convert loads in and saves it to out, optionally replacing the stored
// normals with ones computed from the geometry.
func (a *App) Convert(in, out string, recomputeNormals bool) error {
	g, err := stl.LoadFile(in)
	if err != nil {
		return err
	}
	if recomputeNormals {
		_, ifs, err := g.SingleMesh()
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		ifs.ComputeFaceNormals()
	}
	return stl.SaveFile(out, g)
}

// EvalErrorData is an eval error or validation finding as reported to the
// user.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is what Evaluate reports about a script.
type EvalResult struct {
	Scene    *scene.SceneGraph `json:"-"`
	Meshes   []MeshInfo        `json:"meshes"`
	Errors   []EvalErrorData   `json:"errors"`
	Warnings []EvalErrorData   `json:"warnings"`
}

// OK reports whether the script ran without errors.
func (r EvalResult) OK() bool {
	return len(r.Errors) == 0
}

// Evaluate runs a scene script and summarizes every shape it produced.
// Validation findings of severity error are reported as errors, the rest
// as warnings.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshInfo{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	result.Scene = res.Scene
	for _, f := range res.Findings {
		d := EvalErrorData{Message: f.Error()}
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}

	for _, n := range res.Scene.Shapes() {
		sd, _ := n.Shape()
		ifs, ok := sd.Geometry.IndexedFaceSet()
		if !ok {
			continue
		}
		info := meshInfo(n.Name, ifs)
		info.Findings = nil
		result.Meshes = append(result.Meshes, info)
	}
	return result
}

// Export evaluates a script that builds a single shape and writes it to out
// as STL.
func (a *App) Export(source, out string) (EvalResult, error) {
	result := a.Evaluate(source)
	if !result.OK() {
		return result, fmt.Errorf("script failed: %s", result.Errors[0].Message)
	}
	if err := stl.SaveFile(out, result.Scene); err != nil {
		return result, err
	}
	return result, nil
}
