package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/notargets/meshview/InputParameters"
	"github.com/notargets/meshview/field"
	"github.com/notargets/meshview/mesh"
	"github.com/notargets/meshview/session"
	"github.com/notargets/meshview/session/raster"
	"github.com/notargets/meshview/session/window"
)

const exampleFile = `
########################################
Title: "Test Case"
Mesh:
  Type: Grid2D   # or File: mesh.su2 / mesh.neu
  N: [30, 20]
  D: [0.1, 0.1]
Fields:
  - Name: phi
    Expression: "sin(3*x) * cos(2*y)"
Limits:
  datamin: -0.5
  datamax: null
Snapshot: phi.png
########################################
`

func processInput(inputFile string) (ip *InputParameters.ViewerParameters, err error) {
	if len(inputFile) == 0 {
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputFile), for example:%s", exampleFile)
	}
	var data []byte
	if data, err = os.ReadFile(inputFile); err != nil {
		return nil, err
	}
	ip = &InputParameters.ViewerParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", inputFile, err)
	}
	if len(ip.Fields) == 0 {
		return nil, fmt.Errorf("%s: no Fields to plot", inputFile)
	}
	return
}

// sizes returns n entries of v, repeating the last one and defaulting to def
func sizes[T int | float64](v []T, n int, def T) []T {
	out := make([]T, n)
	for i := range out {
		switch {
		case i < len(v):
			out[i] = v[i]
		case len(v) > 0:
			out[i] = v[len(v)-1]
		default:
			out[i] = def
		}
	}
	return out
}

func buildMesh(mp InputParameters.MeshParameters) (*mesh.Mesh, error) {
	if mp.File != "" {
		return mesh.ReadMeshFile(mp.File)
	}
	var (
		n = sizes(mp.N, 3, 10)
		d = sizes(mp.D, 3, 1.)
	)
	switch strings.ToLower(mp.Type) {
	case "grid1d":
		return mesh.Grid1D(n[0], d[0])
	case "grid2d", "":
		return mesh.Grid2D(n[0], n[1], d[0], d[1])
	case "tri2d":
		return mesh.Tri2D(n[0], n[1], d[0], d[1])
	case "grid3d":
		return mesh.Grid3D(n[0], n[1], n[2], d[0], d[1], d[2])
	case "prism3d":
		return mesh.Prism3D(n[0], n[1], n[2], d[0], d[1], d[2])
	case "tet3d":
		return mesh.Tet3D(n[0], n[1], n[2], d[0], d[1], d[2])
	}
	return nil, fmt.Errorf("unknown mesh type %q", mp.Type)
}

func buildVariables(m *mesh.Mesh, fields []InputParameters.FieldParameters) (vars []field.Variable, err error) {
	for i, fp := range fields {
		var v *field.CellVariable
		switch {
		case len(fp.Values) != 0:
			v, err = field.NewCellVariable(m, fp.Name, fp.Values)
		case fp.Expression != "":
			v, err = field.FromExpression(m, fp.Name, fp.Expression)
		default:
			err = fmt.Errorf("needs Values or an Expression")
		}
		if err != nil {
			return nil, fmt.Errorf("field %d (%q): %w", i, fp.Name, err)
		}
		vars = append(vars, v)
	}
	return
}

func newSession(backend string, width, height int, logger *log.Logger) (session.Session, error) {
	switch strings.ToLower(backend) {
	case "raster", "":
		return raster.New(raster.WithSize(width, height), raster.WithLogger(logger))
	case "window":
		return window.New(window.WithSize(width, height), window.WithLogger(logger))
	}
	return nil, fmt.Errorf("unknown backend %q, expected raster or window", backend)
}
