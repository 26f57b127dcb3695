package field

import (
	"fmt"

	"go.starlark.net/lib/math"
	"go.starlark.net/starlark"

	"github.com/notargets/meshview/mesh"
)

// FromExpression evaluates a starlark expression once per cell and returns
// the results as a new CellVariable. The expression sees the cell center as
// x, y and z, the cell index as i, and the math module both as math and as
// bare names, e.g.
//
//	math.sin(x * y)
//	sin(3*x) * cos(2*y) + pi
func FromExpression(m *mesh.Mesh, name, expr string) (*CellVariable, error) {
	var (
		centers = m.CellCenters()
		values  = make([]float64, len(centers))
		thread  = &starlark.Thread{
			Name:  "field:" + name,
			Print: func(_ *starlark.Thread, _ string) {},
		}
		globals = make(starlark.StringDict, len(math.Module.Members)+1)
	)
	for k, v := range math.Module.Members {
		globals[k] = v
	}
	globals["math"] = math.Module
	src := "lambda x, y, z, i: " + expr
	fn, err := starlark.Eval(thread, name, src, globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	for k, c := range centers {
		args := starlark.Tuple{
			starlark.Float(c[0]), starlark.Float(c[1]), starlark.Float(c[2]),
			starlark.MakeInt(k),
		}
		res, err := starlark.Call(thread, fn, args, nil)
		if err != nil {
			return nil, fmt.Errorf("field %q, cell %d: %w", name, k, err)
		}
		f, ok := starlark.AsFloat(res)
		if !ok {
			return nil, fmt.Errorf("field %q, cell %d: expression returned %s, not a number",
				name, k, res.Type())
		}
		values[k] = f
	}
	return NewCellVariable(m, name, values)
}
