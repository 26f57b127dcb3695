package viewer

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshview/field"
	"github.com/notargets/meshview/mesh"
	"github.com/notargets/meshview/session"
	"github.com/notargets/meshview/session/raster"
	"github.com/notargets/meshview/vtk"
)

// recorder is a session that logs every call and keeps what it was given
type recorder struct {
	calls     []string
	datasets  []*vtk.Dataset
	paths     []string
	title     string
	displayed [][2]float64
	variable  [][2]float64
	visible   bool
	snapshots []string
	failOn    string
}

func (r *recorder) call(name string) error {
	r.calls = append(r.calls, name)
	if name == r.failOn {
		return fmt.Errorf("%s refused", name)
	}
	return nil
}

func (r *recorder) OpenDataset(path string) error {
	if err := r.call("OpenDataset"); err != nil {
		return err
	}
	ds, err := vtk.ReadFile(path)
	if err != nil {
		return err
	}
	r.paths = append(r.paths, path)
	r.datasets = append(r.datasets, ds)
	return nil
}

func (r *recorder) LoadModule(kind session.ModuleKind) error {
	return r.call("LoadModule:" + kind.String())
}

func (r *recorder) RenderWindow() (session.RenderWindow, error) {
	return recorderWindow{r}, r.call("RenderWindow")
}

func (r *recorder) Legend() (session.Legend, error) {
	return recorderLegend{r}, r.call("Legend")
}

func (r *recorder) Render() error { return r.call("Render") }

func (r *recorder) SaveSnapshot(path string) error {
	if err := r.call("SaveSnapshot"); err != nil {
		return err
	}
	r.snapshots = append(r.snapshots, path)
	return nil
}

type recorderWindow struct{ r *recorder }

func (w recorderWindow) CanonicalView() error { return w.r.call("CanonicalView") }

func (w recorderWindow) SetTitle(title string) error {
	w.r.title = title
	return w.r.call("SetTitle")
}

type recorderLegend struct{ r *recorder }

func (l recorderLegend) SetVisible(visible bool) error {
	l.r.visible = visible
	return l.r.call("SetVisible")
}

func (l recorderLegend) SetDisplayedRange(min, max float64) error {
	l.r.displayed = append(l.r.displayed, [2]float64{min, max})
	return l.r.call("SetDisplayedRange")
}

func (l recorderLegend) SetVariableRange(min, max float64) error {
	l.r.variable = append(l.r.variable, [2]float64{min, max})
	return l.r.call("SetVariableRange")
}

var showSequence = []string{
	"OpenDataset", "LoadModule:SurfaceMap", "RenderWindow", "CanonicalView",
	"Legend", "SetVisible", "SetDisplayedRange", "SetVariableRange", "Render",
}

func grid2DVariable(t *testing.T, name string, values []float64) *field.CellVariable {
	m, err := mesh.Grid2D(3, 2, 1, 1)
	require.NoError(t, err)
	v, err := field.NewCellVariable(m, name, values)
	require.NoError(t, err)
	return v
}

func emptyDir(t *testing.T, dir string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary grid files left behind")
}

func TestPlotSixQuads(t *testing.T) {
	var (
		rec = &recorder{}
		tmp = t.TempDir()
		v   = grid2DVariable(t, "phi", []float64{0, 1, 2, 3, 4, 5})
	)
	vw, err := New(rec, []field.Variable{v}, WithTempDir(tmp), WithLogger(quietLogger()))
	require.NoError(t, err)

	g := vw.Grids()[0]
	assert.Len(t, g.Cells(Polygon), 6)
	for _, ct := range []CellType{Line, Tetra, Wedge, Voxel} {
		assert.Empty(t, g.Cells(ct))
	}

	saved, err := vw.Plot("")
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.Equal(t, showSequence, rec.calls)
	assert.True(t, rec.visible)
	assert.Equal(t, [][2]float64{{0, 5}}, rec.displayed)
	assert.Equal(t, [][2]float64{{0, 5}}, rec.variable)

	require.Len(t, rec.datasets, 1)
	ds := rec.datasets[0]
	require.Len(t, ds.CellData, 1)
	assert.Equal(t, "phi", ds.CellData[0].Name)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, ds.CellData[0].Values)
	assert.Equal(t, []int{vtk.Polygon, vtk.Polygon, vtk.Polygon, vtk.Polygon, vtk.Polygon, vtk.Polygon},
		ds.Grid.CellTypes)
	for _, p := range ds.Grid.Points {
		assert.Zero(t, p[2])
	}
	assert.Equal(t, tmp, filepath.Dir(rec.paths[0]))
	emptyDir(t, tmp)
}

func TestPlotAppliesLimits(t *testing.T) {
	rec := &recorder{}
	v := grid2DVariable(t, "T", []float64{-2, 0, 1, 5, 3, 4})
	limits := LimitSpec{DataMin: nil, DataMax: Float(3)}
	vw, err := New(rec, []field.Variable{v}, WithLimits(limits),
		WithTempDir(t.TempDir()), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = vw.Plot("")
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{-2, 3}}, rec.displayed)
	assert.Equal(t, [][2]float64{{-2, 5}}, rec.variable)
}

func TestPlotSingleLimitPastDataExtent(t *testing.T) {
	testCases := []struct {
		name      string
		limits    LimitSpec
		displayed [2]float64
	}{
		{"datamax below field min", LimitSpec{DataMax: Float(3)}, [2]float64{5, 3}},
		{"datamin above field max", LimitSpec{DataMin: Float(12)}, [2]float64{12, 10}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			v := grid2DVariable(t, "T", []float64{5, 6, 7, 8, 9, 10})
			vw, err := New(rec, []field.Variable{v}, WithLimits(tc.limits),
				WithTempDir(t.TempDir()), WithLogger(quietLogger()))
			require.NoError(t, err)
			_, err = vw.Plot("")
			require.NoError(t, err)
			assert.Equal(t, [][2]float64{tc.displayed}, rec.displayed)

			sess, err := raster.New(raster.WithSize(160, 120), raster.WithLogger(quietLogger()))
			require.NoError(t, err)
			tmp := t.TempDir()
			vw, err = New(sess, []field.Variable{v}, WithLimits(tc.limits),
				WithTempDir(tmp), WithLogger(quietLogger()))
			require.NoError(t, err)
			_, err = vw.Plot("")
			require.NoError(t, err)
			lo, hi := sess.Datasets()[0].ScalarRange()
			assert.Equal(t, math.Min(tc.displayed[0], tc.displayed[1]), lo)
			assert.Equal(t, math.Max(tc.displayed[0], tc.displayed[1]), hi)
			emptyDir(t, tmp)
		})
	}
}

func TestPlotRereadsValues(t *testing.T) {
	rec := &recorder{}
	v := grid2DVariable(t, "", []float64{0, 0, 0, 0, 0, 1})
	vw, err := New(rec, []field.Variable{v}, WithTempDir(t.TempDir()), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = vw.Plot("")
	require.NoError(t, err)

	require.NoError(t, v.SetValues([]float64{10, 0, 0, 0, 0, 1}))
	_, err = vw.Plot("")
	require.NoError(t, err)

	require.Len(t, rec.datasets, 2)
	assert.Equal(t, DefaultFieldName, rec.datasets[0].CellData[0].Name)
	assert.Equal(t, 0., rec.datasets[0].CellData[0].Values[0])
	assert.Equal(t, 10., rec.datasets[1].CellData[0].Values[0])
	assert.Equal(t, [][2]float64{{0, 1}, {0, 10}}, rec.displayed)
}

func TestPlotMultipleVariablesAndTitle(t *testing.T) {
	rec := &recorder{}
	u := grid2DVariable(t, "u", []float64{0, 1, 2, 3, 4, 5})
	line, err := mesh.Grid1D(3, 1)
	require.NoError(t, err)
	w, err := field.NewCellVariable(line, "w", []float64{1, 2, 3})
	require.NoError(t, err)

	vw, err := New(rec, []field.Variable{u, w}, WithTitle("two fields"),
		WithTempDir(t.TempDir()), WithLogger(quietLogger()))
	require.NoError(t, err)
	require.Len(t, vw.Grids(), 2)
	assert.Len(t, vw.Grids()[1].Cells(Line), 3)

	saved, err := vw.Plot(filepath.Join(t.TempDir(), "frame"))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(saved))
	assert.Equal(t, "two fields", rec.title)
	assert.Equal(t, "two fields", rec.datasets[0].Title)
	assert.Len(t, rec.datasets, 2)
	assert.Equal(t, []string{saved}, rec.snapshots)
	assert.Equal(t, "SaveSnapshot", rec.calls[len(rec.calls)-1])
	assert.Equal(t, 2, count(rec.calls, "Render"))
	assert.Equal(t, 2, count(rec.calls, "SetTitle"))
}

func count(calls []string, name string) (n int) {
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return
}

func TestSnapshotPath(t *testing.T) {
	testCases := []struct {
		in, out string
		err     error
	}{
		{"plot", "plot.png", nil},
		{"dir/plot.png", "dir/plot.png", nil},
		{"plot.PNG", "plot.PNG", nil},
		{"plot.jpg", "", ErrUnsupportedExtension},
		{"plot.tiff", "", ErrUnsupportedExtension},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			out, err := SnapshotPath(tc.in)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.out, out)
		})
	}
}

func TestPlotRejectsExtensionBeforeRendering(t *testing.T) {
	rec := &recorder{}
	vw, err := New(rec, []field.Variable{grid2DVariable(t, "u", make([]float64, 6))},
		WithTempDir(t.TempDir()), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = vw.Plot("out.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
	assert.Empty(t, rec.calls)
}

func TestPlotSessionFailures(t *testing.T) {
	for _, step := range append(showSequence, "SaveSnapshot") {
		t.Run(step, func(t *testing.T) {
			var (
				rec = &recorder{failOn: step}
				tmp = t.TempDir()
			)
			vw, err := New(rec, []field.Variable{grid2DVariable(t, "u", make([]float64, 6))},
				WithTempDir(tmp), WithLogger(quietLogger()))
			require.NoError(t, err)
			_, err = vw.Plot(filepath.Join(t.TempDir(), "snap.png"))
			assert.ErrorIs(t, err, ErrRenderSession)
			var rse *RenderSessionError
			require.True(t, errors.As(err, &rse))
			assert.NotEmpty(t, rse.Op)
			// nothing runs after the failing step
			assert.Equal(t, step, rec.calls[len(rec.calls)-1])
			emptyDir(t, tmp)
		})
	}
}

func TestPlotSerializationFailure(t *testing.T) {
	rec := &recorder{}
	vw, err := New(rec, []field.Variable{grid2DVariable(t, "u", make([]float64, 6))},
		WithTempDir(filepath.Join(t.TempDir(), "missing")), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = vw.Plot("")
	assert.ErrorIs(t, err, ErrSerialization)
	assert.Empty(t, rec.calls)
}

func TestPlotFieldSizeChanged(t *testing.T) {
	rec := &recorder{}
	v := &resizing{CellVariable: grid2DVariable(t, "u", make([]float64, 6))}
	vw, err := New(rec, []field.Variable{v}, WithTempDir(t.TempDir()), WithLogger(quietLogger()))
	require.NoError(t, err)
	v.extra = true
	_, err = vw.Plot("")
	assert.ErrorIs(t, err, ErrFieldSize)
	assert.Empty(t, rec.calls)
}

// resizing can report one value too many
type resizing struct {
	*field.CellVariable
	extra bool
}

func (r *resizing) Values() []float64 {
	if r.extra {
		return append(r.CellVariable.Values(), 0)
	}
	return r.CellVariable.Values()
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, []field.Variable{grid2DVariable(t, "u", make([]float64, 6))})
	assert.Error(t, err)

	_, err = New(&recorder{}, nil)
	assert.ErrorIs(t, err, ErrNoVariables)

	_, err = New(&recorder{}, []field.Variable{grid2DVariable(t, "u", make([]float64, 6))},
		WithLimits(LimitSpec{"zoom": Float(2)}))
	assert.ErrorIs(t, err, ErrUnknownLimit)

	m, err := mesh.NewMesh(3, unitCube(), [][]int{{0, 1, 2, 4}, {0, 1, 2, 3, 4, 5, 6, 7}})
	require.NoError(t, err)
	v, err := field.NewCellVariable(m, "bad", []float64{1, 2})
	require.NoError(t, err)
	_, err = New(&recorder{}, []field.Variable{v}, WithLogger(quietLogger()))
	var mismatch *TopologyMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestNewController(t *testing.T) {
	_, err := NewController(nil)
	assert.Error(t, err)
	_, err = NewController(&recorder{}, WithLimits(LimitSpec{"zoom": Float(2)}))
	assert.ErrorIs(t, err, ErrUnknownLimit)

	rec := &recorder{}
	tmp := t.TempDir()
	c, err := NewController(rec, WithTempDir(tmp), WithLogger(quietLogger()),
		WithLimits(LimitSpec{DataMin: Float(1)}))
	require.NoError(t, err)
	v := grid2DVariable(t, "phi", []float64{0, 1, 2, 3, 4, 5})
	g, err := NewGrid(v.Mesh(), WithLogger(quietLogger()))
	require.NoError(t, err)
	f, err := AttachScalarField(g, v)
	require.NoError(t, err)
	require.NoError(t, c.Show(g, f))
	assert.Equal(t, showSequence, rec.calls)
	assert.Equal(t, [][2]float64{{1, 5}}, rec.displayed)
	emptyDir(t, tmp)
}
