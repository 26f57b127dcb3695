// Package session defines the contract between a viewer and the rendering
// session that displays its datasets.
//
// A Session is owned by exactly one viewer. Implementations are not safe for
// concurrent use and callers must not re-enter a session from within one of
// its own calls.
package session

import (
	"errors"
	"fmt"
	"strings"
)

// ModuleKind selects how a loaded dataset is displayed
type ModuleKind uint8

const (
	SurfaceMap ModuleKind = iota
	Outline
)

func (k ModuleKind) String() string {
	switch k {
	case SurfaceMap:
		return "SurfaceMap"
	case Outline:
		return "Outline"
	}
	return fmt.Sprintf("ModuleKind(%d)", uint8(k))
}

func NewModuleKind(label string) (ModuleKind, error) {
	switch strings.ToLower(label) {
	case "surfacemap", "surface":
		return SurfaceMap, nil
	case "outline":
		return Outline, nil
	}
	return 0, fmt.Errorf("unknown display module %q", label)
}

// Session is a rendering session holding any number of loaded datasets.
// The most recently opened dataset is the current one; modules and legend
// settings apply to it.
type Session interface {
	// OpenDataset loads a legacy VTK file as a new, current dataset
	OpenDataset(path string) error
	// LoadModule attaches a display module to the current dataset
	LoadModule(kind ModuleKind) error
	RenderWindow() (RenderWindow, error)
	// Legend returns the color legend of the current dataset's module
	Legend() (Legend, error)
	Render() error
	// SaveSnapshot writes the last rendered frame as a raster image
	SaveSnapshot(path string) error
}

type RenderWindow interface {
	// CanonicalView looks down the z axis with x to the right and y up,
	// fitted to every loaded dataset
	CanonicalView() error
	SetTitle(title string) error
}

// Legend controls the color legend. The displayed range sets the color
// scale; the variable range records the true data extent and is reported
// alongside it.
type Legend interface {
	SetVisible(visible bool) error
	SetDisplayedRange(min, max float64) error
	SetVariableRange(min, max float64) error
}

var (
	ErrNoDataset         = errors.New("no dataset loaded")
	ErrNoModule          = errors.New("no display module loaded on the current dataset")
	ErrNotRendered       = errors.New("nothing has been rendered")
	ErrInvalidRange      = errors.New("invalid range")
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
)
