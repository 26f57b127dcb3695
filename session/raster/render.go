package raster

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/gogpu/gg"

	"github.com/notargets/meshview/session"
	"github.com/notargets/meshview/vtk"
)

const (
	plotMargin   = 40.
	titleHeight  = 30.
	legendWidth  = 150.
	legendBarW   = 22.
	legendSteps  = 64
	edgeWidth    = 0.6
	minLineWidth = 4.
)

// Faces of the 3D cell types in VTK vertex order
var (
	tetraFaces = [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
	wedgeFaces = [][]int{{0, 1, 2}, {3, 4, 5}, {0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}}
	voxelFaces = [][]int{
		{0, 1, 3, 2}, {4, 5, 7, 6}, // z- and z+
		{0, 1, 5, 4}, {2, 3, 7, 6}, // y- and y+
		{0, 2, 6, 4}, {1, 3, 7, 5}, // x- and x+
	}
)

// Facet is one drawable primitive in world x,y coordinates
type Facet struct {
	Points  [][2]float64
	Depth   float64
	Value   float64
	Dataset int
	Line    bool
	Outline bool
}

// Facets returns every drawable primitive of the datasets that carry a
// display module, ordered back to front for a view down the z axis.
func (s *Session) Facets() (facets []Facet) {
	for di, ds := range s.datasets {
		if ds.Module == nil {
			continue
		}
		var (
			g       = ds.Data.Grid
			values  []float64
			outline = *ds.Module == session.Outline
		)
		if len(ds.Data.CellData) > 0 {
			values = ds.Data.CellData[0].Values
		}
		for k, cell := range g.Cells {
			value := math.NaN()
			if values != nil {
				value = values[k]
			}
			var faces [][]int
			switch g.CellTypes[k] {
			case vtk.Tetra:
				faces = tetraFaces
			case vtk.Wedge:
				faces = wedgeFaces
			case vtk.Voxel:
				faces = voxelFaces
			default:
				faces = [][]int{nil}
			}
			for _, face := range faces {
				f := Facet{
					Value:   value,
					Dataset: di,
					Line:    g.CellTypes[k] == vtk.Line,
					Outline: outline,
				}
				ids := cell
				if face != nil {
					ids = make([]int, len(face))
					for i, local := range face {
						ids[i] = cell[local]
					}
				}
				f.Points = make([][2]float64, len(ids))
				for i, id := range ids {
					p := g.Points[id]
					f.Points[i] = [2]float64{p[0], p[1]}
					f.Depth += p[2]
				}
				if len(ids) > 0 {
					f.Depth /= float64(len(ids))
				}
				facets = append(facets, f)
			}
		}
	}
	sort.SliceStable(facets, func(i, j int) bool { return facets[i].Depth < facets[j].Depth })
	return
}

// viewport maps world coordinates into the plot area of the frame
type viewport struct {
	scale, x0, y0 float64
	cam           Camera
}

func (s *Session) viewport(cam Camera) viewport {
	var (
		w  = float64(s.width) - legendWidth - 2*plotMargin
		h  = float64(s.height) - titleHeight - 2*plotMargin
		dx = cam.XMax - cam.XMin
		dy = cam.YMax - cam.YMin
		vp = viewport{cam: cam}
	)
	vp.scale = math.Min(w/dx, h/dy)
	vp.x0 = plotMargin + 0.5*(w-vp.scale*dx)
	vp.y0 = titleHeight + plotMargin + 0.5*(h-vp.scale*dy)
	return vp
}

func (vp viewport) project(p [2]float64) (x, y float64) {
	x = vp.x0 + (p[0]-vp.cam.XMin)*vp.scale
	y = vp.y0 + (vp.cam.YMax-p[1])*vp.scale
	return
}

// colorScale maps a value onto a blue to red ramp, clipped to [lo, hi]
type colorScale struct {
	ramp   *gg.LinearGradientBrush
	lo, hi float64
}

func newColorScale(lo, hi float64) colorScale {
	if hi <= lo {
		hi = lo + 1
	}
	ramp := gg.NewLinearGradientBrush(0, 0, 1, 0).
		AddColorStop(0, gg.RGB(0, 0, 0.56)).
		AddColorStop(0.125, gg.RGB(0, 0, 1)).
		AddColorStop(0.375, gg.RGB(0, 1, 1)).
		AddColorStop(0.625, gg.RGB(1, 1, 0)).
		AddColorStop(0.875, gg.RGB(1, 0, 0)).
		AddColorStop(1, gg.RGB(0.5, 0, 0))
	return colorScale{ramp: ramp, lo: lo, hi: hi}
}

func (cs colorScale) color(v float64) color.Color {
	if math.IsNaN(v) {
		return color.Gray{Y: 160}
	}
	t := (math.Max(cs.lo, math.Min(cs.hi, v)) - cs.lo) / (cs.hi - cs.lo)
	return cs.ramp.ColorAt(t, 0).Color()
}

// Render draws every dataset carrying a display module, then the legend of
// the current dataset and the title.
func (s *Session) Render() (err error) {
	if _, err = s.current(); err != nil {
		return err
	}
	cam, err := s.Camera()
	if err != nil {
		return err
	}
	var (
		dc     = gg.NewContext(s.width, s.height)
		vp     = s.viewport(cam)
		scales = make([]colorScale, len(s.datasets))
		facets = s.Facets()
	)
	dc.ClearWithColor(gg.RGB(1, 1, 1))
	for i, ds := range s.datasets {
		scales[i] = newColorScale(ds.ScalarRange())
	}
	lineWidth := math.Max(minLineWidth, 0.05*float64(s.height))
	for _, f := range facets {
		col := scales[f.Dataset].color(f.Value)
		tracePath(dc, vp, f.Points, !f.Line)
		switch {
		case f.Line:
			dc.SetColor(col)
			dc.SetLineWidth(lineWidth)
			err = dc.Stroke()
		case f.Outline:
			dc.SetColor(color.Black)
			dc.SetLineWidth(1)
			err = dc.Stroke()
		default:
			dc.SetColor(col)
			if err = dc.FillPreserve(); err != nil {
				break
			}
			dc.SetColor(color.Gray{Y: 60})
			dc.SetLineWidth(edgeWidth)
			err = dc.Stroke()
		}
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	ds, _ := s.current()
	if ds.Legend.Visible && ds.Module != nil {
		if err = s.drawLegend(dc, ds, scales[len(scales)-1]); err != nil {
			return fmt.Errorf("render legend: %w", err)
		}
	}
	if s.title != "" {
		dc.SetFont(s.face)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(s.title, float64(s.width)/2, 0.5*titleHeight+plotMargin/2, 0.5, 0.5)
	}
	if s.frame != nil {
		_ = s.frame.Close()
	}
	s.frame = dc
	s.logger.Debug("rendered frame", "datasets", len(s.datasets), "facets", len(facets))
	return nil
}

func tracePath(dc *gg.Context, vp viewport, pts [][2]float64, closed bool) {
	for i, p := range pts {
		x, y := vp.project(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	if closed {
		dc.ClosePath()
	}
}

func (s *Session) drawLegend(dc *gg.Context, ds *Dataset, cs colorScale) error {
	var (
		x0   = float64(s.width) - legendWidth + 10
		top  = titleHeight + plotMargin + 20
		bot  = float64(s.height) - plotMargin - 30
		step = (bot - top) / legendSteps
		name = "scalars"
	)
	if len(ds.Data.CellData) > 0 {
		name = ds.Data.CellData[0].Name
	}
	for i := 0; i < legendSteps; i++ {
		v := cs.lo + (cs.hi-cs.lo)*(float64(i)+0.5)/legendSteps
		dc.SetColor(cs.color(v))
		dc.DrawRectangle(x0, bot-float64(i+1)*step, legendBarW, step+0.5)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x0, top, legendBarW, bot-top)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.SetFont(s.face)
	dc.DrawString(name, x0, top-8)
	dc.DrawString(fmt.Sprintf("%.4g", cs.hi), x0+legendBarW+6, top+5)
	dc.DrawString(fmt.Sprintf("%.4g", cs.lo), x0+legendBarW+6, bot+5)
	if ds.Legend.HasVariable {
		dc.DrawString(fmt.Sprintf("data [%.4g, %.4g]", ds.Legend.VariableMin, ds.Legend.VariableMax),
			x0, bot+22)
	}
	return nil
}
