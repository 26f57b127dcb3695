package viewer

import (
	"fmt"
	"io"

	"github.com/notargets/meshview/mesh"
	"github.com/notargets/meshview/vtk"
)

// CellRef locates an input cell inside the grid's buckets
type CellRef struct {
	Type  CellType
	Index int
}

// GridStructure is a classified mesh with points embedded in 3D. It is not
// modified after BuildGrid returns; accessors hand out copies.
type GridStructure struct {
	points  [][3]float64
	buckets [len(CellTypes)][][]int
	sources [len(CellTypes)][]int // input cell index of each bucket entry
	order   []CellRef
}

// BuildGrid pads the mesh coordinates to three components and groups the
// classified connectivity by cell type.
func BuildGrid(m mesh.Topology, c *Classification) (g *GridStructure, err error) {
	coords := m.VertexCoords()
	g = &GridStructure{
		points: make([][3]float64, len(coords)),
		order:  make([]CellRef, c.NumCells()),
	}
	for i, x := range coords {
		copy(g.points[i][:], x)
	}
	for k, row := range c.Rows {
		for _, id := range row {
			if id < 0 || id >= len(g.points) {
				return nil, fmt.Errorf("cell %d: vertex %d not in [0,%d): %w",
					k, id, len(g.points), mesh.ErrVertexOutOfRange)
			}
		}
		ct := c.Types[k]
		g.order[k] = CellRef{Type: ct, Index: len(g.buckets[ct])}
		g.buckets[ct] = append(g.buckets[ct], append([]int(nil), row...))
		g.sources[ct] = append(g.sources[ct], k)
	}
	return
}

// NewGrid classifies and builds in one step
func NewGrid(m mesh.Topology, opts ...Option) (*GridStructure, error) {
	o := newOptions(opts)
	c, err := Classify(m, o.logger)
	if err != nil {
		return nil, err
	}
	return BuildGrid(m, c)
}

func (g *GridStructure) Points() [][3]float64 {
	return append([][3]float64(nil), g.points...)
}

func (g *GridStructure) NumPoints() int { return len(g.points) }

// Cells returns a copy of the connectivity in bucket ct
func (g *GridStructure) Cells(ct CellType) [][]int {
	cells := make([][]int, len(g.buckets[ct]))
	for i, row := range g.buckets[ct] {
		cells[i] = append([]int(nil), row...)
	}
	return cells
}

func (g *GridStructure) NumCells() int { return len(g.order) }

// CellOrder returns where each input cell was placed, in input order
func (g *GridStructure) CellOrder() []CellRef {
	return append([]CellRef(nil), g.order...)
}

// Dataset assembles the grid and fields as a VTK dataset. Cells are emitted
// bucket by bucket in CellTypes order and the scalars are permuted to match.
func (g *GridStructure) Dataset(title string, fields ...*NamedScalarField) (*vtk.Dataset, error) {
	ds := &vtk.Dataset{
		Title: title,
		Grid: vtk.UnstructuredGrid{
			Points:    g.Points(),
			Cells:     make([][]int, 0, g.NumCells()),
			CellTypes: make([]int, 0, g.NumCells()),
		},
	}
	for _, f := range fields {
		if len(f.Values) != g.NumCells() {
			return nil, fmt.Errorf("%w: field %q has %d values, grid has %d cells",
				ErrFieldSize, f.Name, len(f.Values), g.NumCells())
		}
		ds.CellData = append(ds.CellData, vtk.Scalars{
			Name:        f.Name,
			LookupTable: f.LookupTable,
			Values:      make([]float64, 0, g.NumCells()),
		})
	}
	for _, ct := range CellTypes {
		code := ct.VTKCode()
		for i, row := range g.buckets[ct] {
			ds.Grid.Cells = append(ds.Grid.Cells, append([]int(nil), row...))
			ds.Grid.CellTypes = append(ds.Grid.CellTypes, code)
			for j, f := range fields {
				ds.CellData[j].Values = append(ds.CellData[j].Values, f.Values[g.sources[ct][i]])
			}
		}
	}
	return ds, nil
}

// WriteVTK serializes the grid and any number of fields as legacy VTK
func (g *GridStructure) WriteVTK(w io.Writer, title string, fields ...*NamedScalarField) error {
	ds, err := g.Dataset(title, fields...)
	if err != nil {
		return err
	}
	if err = vtk.Write(w, ds); err != nil {
		return &SerializationError{Err: err}
	}
	return nil
}
