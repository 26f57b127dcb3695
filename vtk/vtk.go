// Package vtk reads and writes the legacy VTK ASCII format for unstructured
// grids with cell scalar data.
package vtk

import (
	"errors"
	"fmt"
)

// Cell type identifiers of the legacy format
const (
	Vertex     = 1
	Line       = 3
	Triangle   = 5
	Polygon    = 7
	Quad       = 9
	Tetra      = 10
	Voxel      = 11
	Hexahedron = 12
	Wedge      = 13
	Pyramid    = 14
)

const (
	Version            = "# vtk DataFile Version 2.0"
	DefaultTitle       = "mydata"
	DefaultLookupTable = "default"
	maxTitleLength     = 256
)

var ErrFormat = errors.New("malformed legacy VTK data")

// UnstructuredGrid is a point list plus typed cell connectivity
type UnstructuredGrid struct {
	Points    [][3]float64
	Cells     [][]int
	CellTypes []int
}

// Scalars is one named scalar per cell
type Scalars struct {
	Name        string
	LookupTable string
	Values      []float64
}

// Dataset is the content of one legacy VTK file
type Dataset struct {
	Title    string
	Grid     UnstructuredGrid
	CellData []Scalars
}

// Validate checks that connectivity and cell data agree with the point list
func (ds *Dataset) Validate() error {
	var (
		g  = ds.Grid
		nc = len(g.Cells)
		np = len(g.Points)
	)
	if len(g.CellTypes) != nc {
		return fmt.Errorf("%w: %d cells but %d cell types", ErrFormat, nc, len(g.CellTypes))
	}
	for k, cell := range g.Cells {
		if n := FixedArity(g.CellTypes[k]); n > 0 && n != len(cell) {
			return fmt.Errorf("%w: cell %d of type %d has %d points, expected %d",
				ErrFormat, k, g.CellTypes[k], len(cell), n)
		}
		for _, id := range cell {
			if id < 0 || id >= np {
				return fmt.Errorf("%w: cell %d references point %d of %d", ErrFormat, k, id, np)
			}
		}
	}
	for _, s := range ds.CellData {
		if len(s.Values) != nc {
			return fmt.Errorf("%w: scalars %q have %d values for %d cells",
				ErrFormat, s.Name, len(s.Values), nc)
		}
	}
	return nil
}

// FixedArity returns the point count of a cell type, zero when variable
func FixedArity(cellType int) int {
	switch cellType {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad, Tetra:
		return 4
	case Pyramid:
		return 5
	case Wedge:
		return 6
	case Voxel, Hexahedron:
		return 8
	default:
		return 0
	}
}
