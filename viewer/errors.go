package viewer

import (
	"errors"
	"fmt"
)

var (
	ErrTopologyMismatch     = errors.New("mixed cell types in mesh")
	ErrUnsupportedCellType  = errors.New("unsupported cell type")
	ErrSerialization        = errors.New("grid serialization failed")
	ErrRenderSession        = errors.New("render session failed")
	ErrFieldSize            = errors.New("field size does not match grid")
	ErrUnknownLimit         = errors.New("unknown limit key")
	ErrUnsupportedExtension = errors.New("unsupported snapshot extension")
	ErrNoVariables          = errors.New("no variables to plot")
)

// TopologyMismatchError reports a mesh whose cells do not share one length
type TopologyMismatchError struct {
	Dim     int
	Lengths []int // distinct cell lengths, ascending
}

func (e *TopologyMismatchError) Error() string {
	return fmt.Sprintf("%dD mesh has cells with vertex counts %v, a single cell type is required",
		e.Dim, e.Lengths)
}

func (e *TopologyMismatchError) Unwrap() error { return ErrTopologyMismatch }

// UnsupportedCellTypeError reports a cell length, or mesh dimension, with no
// matching cell type
type UnsupportedCellTypeError struct {
	Dim    int
	Length int
	Err    error
}

func (e *UnsupportedCellTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%dD mesh: %v", e.Dim, e.Err)
	}
	return fmt.Sprintf("%dD mesh: no cell type with %d vertices", e.Dim, e.Length)
}

func (e *UnsupportedCellTypeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnsupportedCellType, e.Err}
	}
	return []error{ErrUnsupportedCellType}
}

// SerializationError wraps a failure writing the grid file
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("serializing grid: %v", e.Err)
	}
	return fmt.Sprintf("serializing grid to %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() []error { return []error{ErrSerialization, e.Err} }

// RenderSessionError wraps a failed call into the rendering session
type RenderSessionError struct {
	Op  string
	Err error
}

func (e *RenderSessionError) Error() string {
	return fmt.Sprintf("render session %s: %v", e.Op, e.Err)
}

func (e *RenderSessionError) Unwrap() []error { return []error{ErrRenderSession, e.Err} }

// IsTopologyError reports whether err came from cell classification
func IsTopologyError(err error) bool {
	return errors.Is(err, ErrTopologyMismatch) || errors.Is(err, ErrUnsupportedCellType)
}
