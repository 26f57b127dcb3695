package mesh

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// CellToVertex returns the [ncells, nvertices] averaging operator: row k
// holds 1/len(k) in the columns of cell k's vertices.
func (m *Mesh) CellToVertex() *sparse.CSR {
	var (
		nc = m.NumberOfCells()
		nv = m.NumberOfVertices()
	)
	SpCToV_Tmp := sparse.NewDOK(nc, nv)
	for k := 0; k < nc; k++ {
		row := m.EToV.Row(k)
		w := 1. / float64(len(row))
		for _, id := range row {
			SpCToV_Tmp.Set(k, id, SpCToV_Tmp.At(k, id)+w)
		}
	}
	return SpCToV_Tmp.ToCSR()
}

// CellCenters returns the vertex average of every cell, padded to 3D
func (m *Mesh) CellCenters() (centers [][3]float64) {
	var (
		nc = m.NumberOfCells()
		nv = m.NumberOfVertices()
	)
	centers = make([][3]float64, nc)
	if nc == 0 || nv == 0 {
		return
	}
	X := mat.NewDense(nv, 3, nil)
	for i, v := range m.Vertices {
		for d, x := range v {
			X.Set(i, d, x)
		}
	}
	var C mat.Dense
	C.Mul(m.CellToVertex(), X)
	for k := range centers {
		for d := 0; d < 3; d++ {
			centers[k][d] = C.At(k, d)
		}
	}
	return
}
