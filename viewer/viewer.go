// Package viewer turns meshes and their cell variables into VTK grids and
// drives a rendering session to plot them with a calibrated color legend.
//
// Grids are classified and built once, when the viewer is created. Each Plot
// re-reads the variables' current values, so a viewer can be plotted again
// after a solver has advanced them.
package viewer

import (
	"github.com/charmbracelet/log"

	"github.com/notargets/meshview/field"
	"github.com/notargets/meshview/session"
)

type options struct {
	logger  *log.Logger
	tempDir string
	title   string
	limits  LimitSpec
}

type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{logger: log.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLimits sets display bounds; only datamin and datamax affect the legend
func WithLimits(limits LimitSpec) Option {
	return func(o *options) { o.limits = limits }
}

func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTempDir sets where grid files are written, os.TempDir by default
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// Viewer plots one or more cell variables through a rendering session
type Viewer struct {
	vars   []field.Variable
	grids  []*GridStructure
	ctrl   *Controller
	logger *log.Logger
}

func New(sess session.Session, vars []field.Variable, opts ...Option) (v *Viewer, err error) {
	ctrl, err := NewController(sess, opts...)
	if err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return nil, ErrNoVariables
	}
	v = &Viewer{
		vars:   append([]field.Variable(nil), vars...),
		grids:  make([]*GridStructure, len(vars)),
		ctrl:   ctrl,
		logger: ctrl.logger,
	}
	for i, vr := range vars {
		c, err := Classify(vr.Mesh(), v.logger)
		if err != nil {
			return nil, err
		}
		if v.grids[i], err = BuildGrid(vr.Mesh(), c); err != nil {
			return nil, err
		}
		v.logger.Debug("grid built", "variable", vr.Name(),
			"points", v.grids[i].NumPoints(), "cells", v.grids[i].NumCells())
	}
	return
}

// Grids returns the grid built for each variable, in variable order
func (v *Viewer) Grids() []*GridStructure {
	return append([]*GridStructure(nil), v.grids...)
}

// Plot shows every variable in order and, when snapshot is not empty, saves
// the final frame. The saved path is returned.
func (v *Viewer) Plot(snapshot string) (saved string, err error) {
	if snapshot != "" {
		// fail before rendering anything
		if _, err = SnapshotPath(snapshot); err != nil {
			return "", err
		}
	}
	for i, vr := range v.vars {
		f, err := AttachScalarField(v.grids[i], vr)
		if err != nil {
			return "", err
		}
		if err = v.ctrl.Show(v.grids[i], f); err != nil {
			return "", err
		}
	}
	if snapshot == "" {
		return "", nil
	}
	return v.ctrl.Snapshot(snapshot)
}
