package viewer

import (
	"fmt"

	"github.com/notargets/meshview/field"
	"github.com/notargets/meshview/vtk"
)

// DefaultFieldName labels fields whose variable has no name
const DefaultFieldName = "default"

// NamedScalarField is a snapshot of a variable's cell values
type NamedScalarField struct {
	Name        string
	LookupTable string
	Values      []float64
	Min, Max    float64
}

// AttachScalarField reads the current values of v for grid g. Nothing is
// cached; every call sees the variable as it is now.
func AttachScalarField(g *GridStructure, v field.Variable) (*NamedScalarField, error) {
	values := v.Values()
	if len(values) != g.NumCells() {
		return nil, fmt.Errorf("%w: variable %q has %d values, grid has %d cells",
			ErrFieldSize, v.Name(), len(values), g.NumCells())
	}
	f := &NamedScalarField{
		Name:        v.Name(),
		LookupTable: vtk.DefaultLookupTable,
		Values:      append([]float64(nil), values...),
		Min:         v.Min(),
		Max:         v.Max(),
	}
	if f.Name == "" {
		f.Name = DefaultFieldName
	}
	return f, nil
}
