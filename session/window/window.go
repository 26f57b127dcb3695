// Package window is an interactive rendering session. It renders headlessly
// like the raster session, and pushes each rendered scene to an avs chart
// window.
package window

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/notargets/avs/assets"
	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/meshview/session"
	"github.com/notargets/meshview/session/raster"
)

// Frame is one rendered scene expressed in avs geometry. Every triangle owns
// its three vertices so cells are flat shaded.
type Frame struct {
	Title                  string
	Mesh                   geometry.TriMesh
	Values                 []float32
	Lines                  []float32
	FMin, FMax             float32
	XMin, XMax, YMin, YMax float32
}

const (
	titleHeadroom = 0.08 // fraction of the y range added above the scene
	titlePitch    = 24
)

// titleLayout returns the chart's upper y bound and the world position of
// the title. Frames without a title get no headroom.
func (f *Frame) titleLayout() (yMax, x, y float32) {
	if f.Title == "" {
		return f.YMax, 0, 0
	}
	dy := titleHeadroom * (f.YMax - f.YMin)
	return f.YMax + dy, f.XMin + 0.02*(f.XMax-f.XMin), f.YMax + 0.25*dy
}

// Plotter displays a frame
type Plotter func(f *Frame)

type Option func(*Session)

func WithPlotter(p Plotter) Option {
	return func(s *Session) { s.plot = p }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithSize(width, height int) Option {
	return func(s *Session) { s.width, s.height = width, height }
}

type Session struct {
	*raster.Session
	width, height int
	logger        *log.Logger
	plot          Plotter
}

var _ session.Session = (*Session)(nil)

func New(opts ...Option) (s *Session, err error) {
	s = &Session{
		width:  raster.DefaultWidth,
		height: raster.DefaultHeight,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.plot == nil {
		s.plot = ChartPlotter(s.width, s.height)
	}
	if s.Session, err = raster.New(raster.WithSize(s.width, s.height),
		raster.WithLogger(s.logger)); err != nil {
		return nil, err
	}
	return
}

// ChartPlotter opens a new avs chart window for every frame
func ChartPlotter(width, height int) Plotter {
	return func(f *Frame) {
		yMax, tx, ty := f.titleLayout()
		ch := chart2d.NewChart2D(f.XMin, f.XMax, f.YMin, yMax,
			width, height, utils2.WHITE, utils2.BLACK)
		if len(f.Mesh.TriVerts) != 0 {
			vs := geometry.VertexScalar{
				TMesh:       &f.Mesh,
				FieldValues: f.Values,
			}
			ch.AddShadedVertexScalar(&vs, f.FMin, f.FMax)
			ch.AddTriMesh(f.Mesh)
		}
		if len(f.Lines) != 0 {
			ch.AddLine(f.Lines, utils2.BLACK)
		}
		if f.Title != "" {
			tf := assets.NewTextFormatter("NotoSans", "Regular", titlePitch,
				utils2.BLACK, true, false)
			ch.Printf(tf, tx, ty, "%s", f.Title)
		}
	}
}

// Render draws the offscreen frame and then hands the scene to the plotter
func (s *Session) Render() error {
	if err := s.Session.Render(); err != nil {
		return err
	}
	f, err := s.Scene()
	if err != nil {
		return err
	}
	s.logger.Debug("plotting frame", "triangles", len(f.Mesh.TriVerts), "segments", len(f.Lines)/4)
	s.plot(f)
	return nil
}

// Scene converts the loaded datasets into avs geometry. The color range is
// the one of the current dataset.
func (s *Session) Scene() (f *Frame, err error) {
	cam, err := s.Camera()
	if err != nil {
		return nil, err
	}
	datasets := s.Datasets()
	lo, hi := datasets[len(datasets)-1].ScalarRange()
	f = &Frame{
		Title: s.Title(),
		FMin:  float32(lo),
		FMax:  float32(hi),
		XMin:  float32(cam.XMin),
		XMax:  float32(cam.XMax),
		YMin:  float32(cam.YMin),
		YMax:  float32(cam.YMax),
	}
	for _, fc := range s.Facets() {
		value := float32(lo)
		if !math.IsNaN(fc.Value) {
			value = float32(fc.Value)
		}
		switch {
		case fc.Line, fc.Outline:
			n := len(fc.Points)
			segments := n
			if fc.Line {
				segments = n - 1
			}
			for i := 0; i < segments; i++ {
				p, q := fc.Points[i], fc.Points[(i+1)%n]
				f.Lines = append(f.Lines,
					float32(p[0]), float32(p[1]), float32(q[0]), float32(q[1]))
			}
		default:
			// fan triangulation around the first vertex
			for i := 1; i+1 < len(fc.Points); i++ {
				base := int64(len(f.Mesh.XY) / 2)
				for _, p := range [][2]float64{fc.Points[0], fc.Points[i], fc.Points[i+1]} {
					f.Mesh.XY = append(f.Mesh.XY, float32(p[0]), float32(p[1]))
					f.Values = append(f.Values, value)
				}
				f.Mesh.TriVerts = append(f.Mesh.TriVerts, [3]int64{base, base + 1, base + 2})
			}
		}
	}
	return
}
