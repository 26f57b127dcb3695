package mesh

import (
	"errors"
	"fmt"
)

// Masked marks an unused trailing slot in a cell's vertex ID row
const Masked = -1

var (
	ErrMaskedInterior   = errors.New("valid vertex ID follows a masked entry")
	ErrVertexOutOfRange = errors.New("vertex ID out of range")
	ErrDimension        = errors.New("unsupported mesh dimension")
)

// Topology is what a viewer needs from a mesh
type Topology interface {
	Dim() int
	VertexCoords() [][]float64
	OrderedCellVertexIDs() CellVertexIDs
	NumberOfCells() int
}

// CellVertexIDs stores per-cell vertex IDs in a fixed capacity buffer, one
// row of Capacity slots per cell, with an explicit length for each row.
// Slots past a row's length hold Masked.
type CellVertexIDs struct {
	Capacity int
	IDs      []int // [ncells*Capacity]
	Lengths  []int // [ncells]
}

// NewCellVertexIDs packs unmasked rows of possibly different lengths.
func NewCellVertexIDs(rows [][]int) (c CellVertexIDs) {
	for _, row := range rows {
		if len(row) > c.Capacity {
			c.Capacity = len(row)
		}
	}
	c.IDs = make([]int, len(rows)*c.Capacity)
	c.Lengths = make([]int, len(rows))
	for k, row := range rows {
		base := k * c.Capacity
		copy(c.IDs[base:], row)
		for i := len(row); i < c.Capacity; i++ {
			c.IDs[base+i] = Masked
		}
		c.Lengths[k] = len(row)
	}
	return
}

// FromMasked imports right padded rows. Any entry equal to mask, or any
// negative entry, is treated as padding; the row's length is the count of
// entries before the first padding slot.
func FromMasked(rows [][]int, mask int) (c CellVertexIDs, err error) {
	trimmed := make([][]int, len(rows))
	for k, row := range rows {
		var (
			n      = len(row)
			masked bool
		)
		for i, id := range row {
			invalid := id == mask || id < 0
			switch {
			case invalid && !masked:
				masked = true
				n = i
			case !invalid && masked:
				err = fmt.Errorf("cell %d, slot %d: %w", k, i, ErrMaskedInterior)
				return
			}
		}
		trimmed[k] = row[:n]
	}
	c = NewCellVertexIDs(trimmed)
	return
}

func (c CellVertexIDs) NumCells() int { return len(c.Lengths) }

// Len returns the number of valid vertex IDs in cell k
func (c CellVertexIDs) Len(k int) int { return c.Lengths[k] }

// Row returns cell k's vertex IDs truncated to its length. The returned
// slice aliases the buffer.
func (c CellVertexIDs) Row(k int) []int {
	base := k * c.Capacity
	return c.IDs[base : base+c.Lengths[k]]
}

// Padded returns cell k's full row, including Masked slots
func (c CellVertexIDs) Padded(k int) []int {
	base := k * c.Capacity
	return c.IDs[base : base+c.Capacity]
}

// Mesh is a vertex/cell description of a finite volume mesh
type Mesh struct {
	Dimension int
	Vertices  [][]float64 // Vertex coordinates [nvertices][Dimension]
	EToV      CellVertexIDs
}

// NewMesh validates and assembles a mesh from vertex coordinates and
// per-cell vertex rows.
func NewMesh(dim int, vertices [][]float64, rows [][]int) (*Mesh, error) {
	return NewMeshFromIDs(dim, vertices, NewCellVertexIDs(rows))
}

func NewMeshFromIDs(dim int, vertices [][]float64, etov CellVertexIDs) (m *Mesh, err error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("%w: %d", ErrDimension, dim)
	}
	verts := make([][]float64, len(vertices))
	for i, v := range vertices {
		if len(v) < dim {
			return nil, fmt.Errorf("vertex %d has %d coordinates, mesh dimension is %d",
				i, len(v), dim)
		}
		verts[i] = append([]float64(nil), v[:dim]...)
	}
	m = &Mesh{
		Dimension: dim,
		Vertices:  verts,
		EToV:      etov,
	}
	for k := 0; k < etov.NumCells(); k++ {
		for _, id := range etov.Row(k) {
			if id < 0 || id >= len(verts) {
				return nil, fmt.Errorf("cell %d: vertex %d not in [0,%d): %w",
					k, id, len(verts), ErrVertexOutOfRange)
			}
		}
	}
	return
}

func (m *Mesh) Dim() int                            { return m.Dimension }
func (m *Mesh) VertexCoords() [][]float64           { return m.Vertices }
func (m *Mesh) OrderedCellVertexIDs() CellVertexIDs { return m.EToV }
func (m *Mesh) NumberOfCells() int                  { return m.EToV.NumCells() }
func (m *Mesh) NumberOfVertices() int               { return len(m.Vertices) }

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Dimension: %d\n", m.Dimension)
	fmt.Printf("  Vertices: %d\n", m.NumberOfVertices())
	fmt.Printf("  Cells: %d\n", m.NumberOfCells())
	counts := make(map[int]int)
	for _, n := range m.EToV.Lengths {
		counts[n]++
	}
	fmt.Printf("  Cells by vertex count:\n")
	for n := 0; n <= m.EToV.Capacity; n++ {
		if c, ok := counts[n]; ok {
			fmt.Printf("    %d: %d\n", n, c)
		}
	}
}
