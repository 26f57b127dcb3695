package viewer

import (
	"fmt"

	"github.com/notargets/meshview/vtk"
)

// CellType is the bucket a cell is grouped into before serialization
type CellType uint8

const (
	Line CellType = iota
	Tetra
	Wedge
	Voxel
	Polygon
)

// CellTypes lists every bucket in serialization order
var CellTypes = [...]CellType{Line, Tetra, Wedge, Voxel, Polygon}

func (ct CellType) String() string {
	switch ct {
	case Line:
		return "Line"
	case Tetra:
		return "Tetra"
	case Wedge:
		return "Wedge"
	case Voxel:
		return "Voxel"
	case Polygon:
		return "Polygon"
	}
	return fmt.Sprintf("CellType(%d)", uint8(ct))
}

// VTKCode returns the legacy VTK cell type code
func (ct CellType) VTKCode() int {
	switch ct {
	case Line:
		return vtk.Line
	case Tetra:
		return vtk.Tetra
	case Wedge:
		return vtk.Wedge
	case Voxel:
		return vtk.Voxel
	case Polygon:
		return vtk.Polygon
	}
	panic(fmt.Sprintf("unknown cell type %d", uint8(ct)))
}

// Arity is the fixed vertex count of the type, 0 for Polygon
func (ct CellType) Arity() int {
	switch ct {
	case Line:
		return 2
	case Tetra:
		return 4
	case Wedge:
		return 6
	case Voxel:
		return 8
	case Polygon:
		return 0
	}
	panic(fmt.Sprintf("unknown cell type %d", uint8(ct)))
}

// fixedArityType looks a cell length up in the fixed arity table
func fixedArityType(length int) (CellType, bool) {
	switch length {
	case 2:
		return Line, true
	case 4:
		return Tetra, true
	case 6:
		return Wedge, true
	case 8:
		return Voxel, true
	}
	return 0, false
}
