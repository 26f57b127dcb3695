package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshview/InputParameters"
	"github.com/notargets/meshview/viewer"
	"github.com/notargets/meshview/vtk"
)

func writeInput(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildMesh(t *testing.T) {
	testCases := []struct {
		typ   string
		n     []int
		cells int
		dim   int
	}{
		{"Grid1D", []int{5}, 5, 1},
		{"Grid2D", []int{3, 2}, 6, 2},
		{"", []int{3, 2}, 6, 2},
		{"tri2d", []int{3, 2}, 12, 2},
		{"Grid3D", []int{2}, 8, 3},
		{"Prism3D", []int{1, 1, 2}, 4, 3},
		{"Tet3D", []int{1, 1, 1}, 6, 3},
	}
	for _, tc := range testCases {
		t.Run(tc.typ, func(t *testing.T) {
			m, err := buildMesh(InputParameters.MeshParameters{Type: tc.typ, N: tc.n, D: []float64{0.5}})
			require.NoError(t, err)
			assert.Equal(t, tc.cells, m.NumberOfCells())
			assert.Equal(t, tc.dim, m.Dim())
		})
	}
	_, err := buildMesh(InputParameters.MeshParameters{Type: "Hex27"})
	assert.Error(t, err)
	_, err = buildMesh(InputParameters.MeshParameters{File: "mesh.neu"})
	assert.Error(t, err)
}

func TestSizes(t *testing.T) {
	assert.Equal(t, []int{4, 2, 2}, sizes([]int{4, 2}, 3, 10))
	assert.Equal(t, []float64{1, 1}, sizes(nil, 2, 1.))
}

func TestBuildVariables(t *testing.T) {
	m, err := buildMesh(InputParameters.MeshParameters{Type: "Grid2D", N: []int{2, 1}})
	require.NoError(t, err)
	vars, err := buildVariables(m, []InputParameters.FieldParameters{
		{Name: "given", Values: []float64{1, 2}},
		{Name: "computed", Expression: "10*i + x"},
	})
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, []float64{1, 2}, vars[0].Values())
	assert.Equal(t, []float64{0.5, 11.5}, vars[1].Values())

	_, err = buildVariables(m, []InputParameters.FieldParameters{{Name: "empty"}})
	assert.Error(t, err)
	_, err = buildVariables(m, []InputParameters.FieldParameters{{Name: "short", Values: []float64{1}}})
	assert.Error(t, err)
}

func TestProcessInput(t *testing.T) {
	_, err := processInput("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fields:")

	_, err = processInput(writeInput(t, "Title: nothing\n"))
	assert.Error(t, err)

	ip, err := processInput(writeInput(t, exampleFile))
	require.NoError(t, err)
	assert.Equal(t, "Test Case", ip.Title)
	assert.Equal(t, []int{30, 20}, ip.Mesh.N)
	ip.Print()
}

func TestExampleFileBuilds(t *testing.T) {
	ip, err := processInput(writeInput(t, exampleFile))
	require.NoError(t, err)
	m, err := buildMesh(ip.Mesh)
	require.NoError(t, err)
	assert.Equal(t, 600, m.NumberOfCells())
	vars, err := buildVariables(m, ip.Fields)
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, "phi", vars[0].Name())
	assert.Len(t, vars[0].Values(), 600)
	_, err = viewer.NewLimitSpec(ip.Limits)
	assert.NoError(t, err)
}

func TestNewSession(t *testing.T) {
	s, err := newSession("raster", 128, 96, loggerFromContext(context.Background()))
	require.NoError(t, err)
	assert.NotNil(t, s)
	_, err = newSession("opengl", 128, 96, loggerFromContext(context.Background()))
	assert.Error(t, err)
}

const sixQuads = `
Title: six quads
Mesh:
  Type: Grid2D
  N: [3, 2]
  D: [1, 1]
Fields:
  - Name: phi
    Values: [0, 1, 2, 3, 4, 5]
  - Name: psi
    Expression: "x + y"
Limits:
  datamax: 3
`

func TestExportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grid.vtk")
	rootCmd.SetArgs([]string{"export", "-I", writeInput(t, sixQuads), "-o", out})
	require.NoError(t, rootCmd.Execute())

	ds, err := vtk.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "six quads", ds.Title)
	assert.Len(t, ds.Grid.Points, 12)
	assert.Len(t, ds.Grid.Cells, 6)
	require.Len(t, ds.CellData, 2)
	assert.Equal(t, "phi", ds.CellData[0].Name)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, ds.CellData[0].Values)
	assert.Equal(t, "psi", ds.CellData[1].Name)
	assert.Equal(t, 1., ds.CellData[1].Values[0])
}

func TestPlotCommand(t *testing.T) {
	var (
		dir   = t.TempDir()
		tmp   = t.TempDir()
		out   = filepath.Join(dir, "frame")
		trace bytes.Buffer
	)
	rootCmd.SetOut(&trace)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"plot", "-I", writeInput(t, sixQuads), "-o", out,
		"--width", "240", "--height", "180", "--tempDir", tmp})
	require.NoError(t, rootCmd.Execute())

	info, err := os.Stat(out + ".png")
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, trace.String(), "frame.png")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
