package viewer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/notargets/meshview/session"
)

// SnapshotExtension is the only raster format sessions are asked to save
const SnapshotExtension = ".png"

// Controller feeds grids and fields to a rendering session. It owns the
// session for its lifetime and must not be used concurrently.
type Controller struct {
	sess    session.Session
	logger  *log.Logger
	tempDir string
	title   string
	limits  LimitSpec
}

// NewController validates the limits option and binds the session
func NewController(sess session.Session, opts ...Option) (*Controller, error) {
	if sess == nil {
		return nil, errors.New("viewer: nil session")
	}
	o := newOptions(opts)
	limits, err := NewLimitSpec(o.limits)
	if err != nil {
		return nil, err
	}
	return &Controller{
		sess:    sess,
		logger:  o.logger,
		tempDir: o.tempDir,
		title:   o.title,
		limits:  limits,
	}, nil
}

func sessionError(op string, err error) error {
	return &RenderSessionError{Op: op, Err: err}
}

// Show loads one grid and field into the session, configures the view and
// legend, and renders. The first failure aborts the remaining steps.
func (c *Controller) Show(g *GridStructure, f *NamedScalarField) (err error) {
	path, cleanup, err := c.serialize(g, f)
	if err != nil {
		return err
	}
	defer cleanup()

	if err = c.sess.OpenDataset(path); err != nil {
		return sessionError("open dataset", err)
	}
	if err = c.sess.LoadModule(session.SurfaceMap); err != nil {
		return sessionError("load module", err)
	}
	c.logger.Debug("dataset loaded", "field", f.Name, "cells", g.NumCells())

	rw, err := c.sess.RenderWindow()
	if err != nil {
		return sessionError("render window", err)
	}
	if err = rw.CanonicalView(); err != nil {
		return sessionError("canonical view", err)
	}
	if c.title != "" {
		if err = rw.SetTitle(c.title); err != nil {
			return sessionError("set title", err)
		}
	}

	legend, err := c.sess.Legend()
	if err != nil {
		return sessionError("legend", err)
	}
	if err = legend.SetVisible(true); err != nil {
		return sessionError("legend visible", err)
	}
	lo, hi := c.limits.ResolveDisplayedRange(f.Min, f.Max)
	if err = legend.SetDisplayedRange(lo, hi); err != nil {
		return sessionError("displayed range", err)
	}
	if err = legend.SetVariableRange(f.Min, f.Max); err != nil {
		return sessionError("variable range", err)
	}
	c.logger.Debug("legend configured", "field", f.Name,
		"displayed", [2]float64{lo, hi}, "data", [2]float64{f.Min, f.Max})

	if err = c.sess.Render(); err != nil {
		return sessionError("render", err)
	}
	return nil
}

// serialize writes the grid and field to a new temporary file. The file is
// closed before returning; cleanup removes it.
func (c *Controller) serialize(g *GridStructure, f *NamedScalarField) (path string, cleanup func(), err error) {
	file, err := os.CreateTemp(c.tempDir, "meshview-*.vtk")
	if err != nil {
		return "", nil, &SerializationError{Err: err}
	}
	path = file.Name()
	cleanup = func() {
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
			c.logger.Warn("removing temporary grid file", "path", path, "err", rerr)
		}
	}
	err = g.WriteVTK(file, c.title, f)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = &SerializationError{Path: path, Err: cerr}
	}
	if err != nil {
		cleanup()
		if se, ok := err.(*SerializationError); ok {
			se.Path = path
		}
		return "", nil, err
	}
	c.logger.Debug("grid serialized", "path", path)
	return path, cleanup, nil
}

// SnapshotPath applies the snapshot extension rule: a path without an
// extension gets .png, any other extension is rejected.
func SnapshotPath(path string) (string, error) {
	ext := filepath.Ext(path)
	switch {
	case ext == "":
		return path + SnapshotExtension, nil
	case strings.EqualFold(ext, SnapshotExtension):
		return path, nil
	}
	return "", fmt.Errorf("%w: %q, only %s is supported", ErrUnsupportedExtension, ext, SnapshotExtension)
}

// Snapshot saves the current frame
func (c *Controller) Snapshot(path string) (string, error) {
	path, err := SnapshotPath(path)
	if err != nil {
		return "", err
	}
	if err = c.sess.SaveSnapshot(path); err != nil {
		return "", sessionError("save snapshot", err)
	}
	c.logger.Info("snapshot saved", "path", path)
	return path, nil
}
