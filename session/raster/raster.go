// Package raster is a headless rendering session. Datasets are drawn with a
// software rasterizer into an offscreen frame which can be saved as PNG.
package raster

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/notargets/meshview/session"
	"github.com/notargets/meshview/vtk"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// LegendState is the color legend configuration of one dataset
type LegendState struct {
	Visible                    bool
	DisplayedMin, DisplayedMax float64
	VariableMin, VariableMax   float64
	HasDisplayed, HasVariable  bool
}

// Dataset is a loaded file and its display settings
type Dataset struct {
	Path   string
	Data   *vtk.Dataset
	Module *session.ModuleKind
	Legend LegendState
}

// ScalarRange returns the color scale for the dataset: the legend's
// displayed range when set, the extent of its first cell scalars otherwise.
func (ds *Dataset) ScalarRange() (lo, hi float64) {
	if ds.Legend.HasDisplayed {
		lo, hi = ds.Legend.DisplayedMin, ds.Legend.DisplayedMax
		if hi < lo {
			lo, hi = hi, lo
		}
		return
	}
	if len(ds.Data.CellData) == 0 || len(ds.Data.CellData[0].Values) == 0 {
		return 0, 1
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range ds.Data.CellData[0].Values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return
}

// Camera is the world rectangle mapped onto the plot area
type Camera struct {
	XMin, XMax, YMin, YMax float64
}

type Option func(*Session)

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithSize(width, height int) Option {
	return func(s *Session) { s.width, s.height = width, height }
}

// Session renders into an offscreen frame. It is owned by a single caller.
type Session struct {
	width, height int
	logger        *log.Logger
	datasets      []*Dataset
	title         string
	camera        *Camera
	face          text.Face
	frame         *gg.Context
}

var _ session.Session = (*Session)(nil)

func New(opts ...Option) (s *Session, err error) {
	s = &Session{
		width:  DefaultWidth,
		height: DefaultHeight,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.width < 64 || s.height < 64 {
		return nil, fmt.Errorf("frame size %dx%d too small", s.width, s.height)
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading legend font: %w", err)
	}
	s.face = src.Face(13)
	return
}

func (s *Session) OpenDataset(path string) error {
	data, err := vtk.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", path, err)
	}
	s.datasets = append(s.datasets, &Dataset{Path: path, Data: data})
	s.logger.Debug("opened dataset", "path", path,
		"points", len(data.Grid.Points), "cells", len(data.Grid.Cells))
	return nil
}

func (s *Session) current() (*Dataset, error) {
	if len(s.datasets) == 0 {
		return nil, session.ErrNoDataset
	}
	return s.datasets[len(s.datasets)-1], nil
}

func (s *Session) LoadModule(kind session.ModuleKind) error {
	ds, err := s.current()
	if err != nil {
		return err
	}
	switch kind {
	case session.SurfaceMap, session.Outline:
	default:
		return fmt.Errorf("load module: %v not supported", kind)
	}
	ds.Module = &kind
	return nil
}

func (s *Session) RenderWindow() (session.RenderWindow, error) {
	return renderWindow{s}, nil
}

func (s *Session) Legend() (session.Legend, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	if ds.Module == nil {
		return nil, session.ErrNoModule
	}
	return legend{ds}, nil
}

// Datasets returns the loaded datasets in load order
func (s *Session) Datasets() []*Dataset { return s.datasets }

func (s *Session) Title() string { return s.title }

func (s *Session) Size() (width, height int) { return s.width, s.height }

// Frame returns the last rendered image, nil before the first Render
func (s *Session) Frame() image.Image {
	if s.frame == nil {
		return nil
	}
	return s.frame.Image()
}

// Camera returns the view used by Render: the canonical view when one has
// been set, otherwise a fit to the loaded datasets.
func (s *Session) Camera() (Camera, error) {
	if s.camera != nil {
		return *s.camera, nil
	}
	return s.fit()
}

func (s *Session) SaveSnapshot(path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("%w: %q", session.ErrUnsupportedFormat, ext)
	}
	if s.frame == nil {
		return session.ErrNotRendered
	}
	if err := s.frame.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	s.logger.Debug("saved snapshot", "path", path)
	return nil
}

func (s *Session) fit() (c Camera, err error) {
	var (
		xMin, xMax = math.Inf(1), math.Inf(-1)
		yMin, yMax = math.Inf(1), math.Inf(-1)
	)
	if len(s.datasets) == 0 {
		return c, session.ErrNoDataset
	}
	for _, ds := range s.datasets {
		for _, p := range ds.Data.Grid.Points {
			xMin, xMax = math.Min(xMin, p[0]), math.Max(xMax, p[0])
			yMin, yMax = math.Min(yMin, p[1]), math.Max(yMax, p[1])
		}
	}
	if math.IsInf(xMin, 1) {
		xMin, xMax, yMin, yMax = 0, 0, 0, 0
	}
	dx, dy := xMax-xMin, yMax-yMin
	switch {
	case dx == 0 && dy == 0:
		dx, dy = 1, 1
	case dy == 0:
		dy = 0.1 * dx
	case dx == 0:
		dx = 0.1 * dy
	}
	xc, yc := 0.5*(xMin+xMax), 0.5*(yMin+yMax)
	const margin = 1.05
	c = Camera{
		XMin: xc - 0.5*margin*dx, XMax: xc + 0.5*margin*dx,
		YMin: yc - 0.5*margin*dy, YMax: yc + 0.5*margin*dy,
	}
	return
}

type renderWindow struct{ s *Session }

func (w renderWindow) CanonicalView() error {
	c, err := w.s.fit()
	if err != nil {
		return err
	}
	w.s.camera = &c
	return nil
}

func (w renderWindow) SetTitle(title string) error {
	w.s.title = title
	return nil
}

type legend struct{ ds *Dataset }

func checkFinite(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return fmt.Errorf("%w: [%v, %v]", session.ErrInvalidRange, min, max)
	}
	return nil
}

func checkRange(min, max float64) error {
	if err := checkFinite(min, max); err != nil {
		return err
	}
	if min > max {
		return fmt.Errorf("%w: [%v, %v]", session.ErrInvalidRange, min, max)
	}
	return nil
}

func (l legend) SetVisible(visible bool) error {
	l.ds.Legend.Visible = visible
	return nil
}

// SetDisplayedRange accepts bounds in either order; a single limit past the
// data extent yields min > max and the color scale uses the ordered pair.
func (l legend) SetDisplayedRange(min, max float64) error {
	if err := checkFinite(min, max); err != nil {
		return err
	}
	l.ds.Legend.DisplayedMin, l.ds.Legend.DisplayedMax = min, max
	l.ds.Legend.HasDisplayed = true
	return nil
}

func (l legend) SetVariableRange(min, max float64) error {
	if err := checkRange(min, max); err != nil {
		return err
	}
	l.ds.Legend.VariableMin, l.ds.Legend.VariableMax = min, max
	l.ds.Legend.HasVariable = true
	return nil
}
