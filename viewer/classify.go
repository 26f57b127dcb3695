package viewer

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/notargets/meshview/mesh"
)

// Classification holds, per cell, its valid vertex IDs and its bucket
type Classification struct {
	Dim   int
	Rows  [][]int // vertex IDs truncated to the cell length
	Types []CellType
}

func (c *Classification) NumCells() int { return len(c.Rows) }

// Length returns the cell length of cell k
func (c *Classification) Length(k int) int { return len(c.Rows[k]) }

// Count returns the number of cells in bucket ct
func (c *Classification) Count(ct CellType) (n int) {
	for _, t := range c.Types {
		if t == ct {
			n++
		}
	}
	return
}

// Classify buckets every cell of m by its length. Two dimensional cells are
// always polygons; one and three dimensional meshes must use a single fixed
// arity cell type.
func Classify(m mesh.Topology, logger *log.Logger) (c *Classification, err error) {
	if logger == nil {
		logger = log.Default()
	}
	var (
		ids = m.OrderedCellVertexIDs()
		nc  = ids.NumCells()
	)
	c = &Classification{
		Dim:   m.Dim(),
		Rows:  make([][]int, nc),
		Types: make([]CellType, nc),
	}
	lengths := make(map[int]struct{})
	for k := 0; k < nc; k++ {
		c.Rows[k] = append([]int(nil), ids.Row(k)...)
		lengths[ids.Len(k)] = struct{}{}
	}

	switch c.Dim {
	case 2:
		for k := range c.Types {
			c.Types[k] = Polygon
		}
		return
	case 1, 3:
	default:
		return nil, &UnsupportedCellTypeError{
			Dim: c.Dim,
			Err: fmt.Errorf("%w: %d", mesh.ErrDimension, c.Dim),
		}
	}

	if c.Dim == 3 {
		logger.Warn("3D cell vertex ordering is passed through unchanged and may not match VTK connectivity",
			"dim", c.Dim, "cells", nc)
	}
	if nc == 0 {
		return
	}
	if len(lengths) > 1 {
		e := &TopologyMismatchError{Dim: c.Dim}
		for n := range lengths {
			e.Lengths = append(e.Lengths, n)
		}
		sort.Ints(e.Lengths)
		return nil, e
	}
	length := c.Length(0)
	ct, ok := fixedArityType(length)
	if !ok {
		return nil, &UnsupportedCellTypeError{Dim: c.Dim, Length: length}
	}
	for k := range c.Types {
		c.Types[k] = ct
	}
	logger.Debug("classified cells", "dim", c.Dim, "cells", nc, "type", ct)
	return
}
