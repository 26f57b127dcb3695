package field

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/meshview/mesh"
)

// Variable is a scalar quantity with one value per mesh cell
type Variable interface {
	Mesh() mesh.Topology
	Name() string
	Values() []float64
	Min() float64
	Max() float64
}

// CellVariable holds one value per cell of its mesh. Values may be replaced
// between plots, for example after each time step of a solver.
type CellVariable struct {
	mesh   mesh.Topology
	name   string
	values []float64
}

func NewCellVariable(m mesh.Topology, name string, values []float64) (cv *CellVariable, err error) {
	cv = &CellVariable{
		mesh: m,
		name: name,
	}
	if err = cv.SetValues(values); err != nil {
		return nil, err
	}
	return
}

// SetValues replaces the cell values, which must match the mesh's cell count
func (cv *CellVariable) SetValues(values []float64) error {
	if len(values) != cv.mesh.NumberOfCells() {
		return fmt.Errorf("variable %q: %d values for %d cells",
			cv.name, len(values), cv.mesh.NumberOfCells())
	}
	cv.values = append(cv.values[:0], values...)
	return nil
}

func (cv *CellVariable) SetName(name string)  { cv.name = name }
func (cv *CellVariable) Mesh() mesh.Topology  { return cv.mesh }
func (cv *CellVariable) Name() string         { return cv.name }
func (cv *CellVariable) Values() []float64    { return cv.values }
func (cv *CellVariable) Len() int             { return len(cv.values) }
func (cv *CellVariable) At(k int) float64     { return cv.values[k] }
func (cv *CellVariable) Set(k int, v float64) { cv.values[k] = v }

// Min returns the smallest cell value, zero for an empty variable
func (cv *CellVariable) Min() float64 {
	if len(cv.values) == 0 {
		return 0
	}
	return floats.Min(cv.values)
}

// Max returns the largest cell value, zero for an empty variable
func (cv *CellVariable) Max() float64 {
	if len(cv.values) == 0 {
		return 0
	}
	return floats.Max(cv.values)
}
