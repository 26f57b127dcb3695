package mesh

import (
	"fmt"
)

// Grid1D builds nx line cells of width dx starting at x = 0
func Grid1D(nx int, dx float64) (*Mesh, error) {
	if nx < 1 || dx <= 0 {
		return nil, fmt.Errorf("invalid Grid1D: nx = %d, dx = %v", nx, dx)
	}
	var (
		verts = make([][]float64, nx+1)
		rows  = make([][]int, nx)
	)
	for i := range verts {
		verts[i] = []float64{float64(i) * dx}
	}
	for i := range rows {
		rows[i] = []int{i, i + 1}
	}
	return NewMesh(1, verts, rows)
}

// Grid2D builds nx*ny quadrilateral cells. Vertex (i,j) has index
// i + j*(nx+1); cell (i,j) has index i + j*nx and lists its vertices
// counter-clockwise starting at the lower left corner.
func Grid2D(nx, ny int, dx, dy float64) (*Mesh, error) {
	if nx < 1 || ny < 1 || dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("invalid Grid2D: nx = %d, ny = %d, dx = %v, dy = %v",
			nx, ny, dx, dy)
	}
	verts := gridVertices2D(nx, ny, dx, dy)
	rows := make([][]int, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v0 := i + j*(nx+1)
			rows = append(rows, []int{v0, v0 + 1, v0 + nx + 2, v0 + nx + 1})
		}
	}
	return NewMesh(2, verts, rows)
}

// Tri2D splits every Grid2D quadrilateral along its lower-left to
// upper-right diagonal into two counter-clockwise triangles.
func Tri2D(nx, ny int, dx, dy float64) (*Mesh, error) {
	if nx < 1 || ny < 1 || dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("invalid Tri2D: nx = %d, ny = %d, dx = %v, dy = %v",
			nx, ny, dx, dy)
	}
	verts := gridVertices2D(nx, ny, dx, dy)
	rows := make([][]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v0 := i + j*(nx+1)
			v1, v2, v3 := v0+1, v0+nx+2, v0+nx+1
			rows = append(rows, []int{v0, v1, v2}, []int{v0, v2, v3})
		}
	}
	return NewMesh(2, verts, rows)
}

func gridVertices2D(nx, ny int, dx, dy float64) (verts [][]float64) {
	verts = make([][]float64, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			verts = append(verts, []float64{float64(i) * dx, float64(j) * dy})
		}
	}
	return
}

// Extrude sweeps a 2D mesh through nz layers of thickness dz. Triangles
// become wedges and quadrilaterals become voxels, both in VTK vertex order.
// Cells are numbered layer by layer.
func Extrude(m *Mesh, nz int, dz float64) (*Mesh, error) {
	if m.Dimension != 2 {
		return nil, fmt.Errorf("%w: can only extrude 2D meshes, got %dD", ErrDimension, m.Dimension)
	}
	if nz < 1 || dz <= 0 {
		return nil, fmt.Errorf("invalid extrusion: nz = %d, dz = %v", nz, dz)
	}
	var (
		nv    = len(m.Vertices)
		nc    = m.NumberOfCells()
		verts = make([][]float64, 0, nv*(nz+1))
		rows  = make([][]int, 0, nc*nz)
	)
	for l := 0; l <= nz; l++ {
		for _, v := range m.Vertices {
			verts = append(verts, []float64{v[0], v[1], float64(l) * dz})
		}
	}
	for l := 0; l < nz; l++ {
		lo, hi := l*nv, (l+1)*nv
		for k := 0; k < nc; k++ {
			r := m.EToV.Row(k)
			switch len(r) {
			case 3:
				rows = append(rows, []int{
					r[0] + lo, r[1] + lo, r[2] + lo,
					r[0] + hi, r[1] + hi, r[2] + hi,
				})
			case 4:
				// counter-clockwise quad to voxel ordering
				rows = append(rows, []int{
					r[0] + lo, r[1] + lo, r[3] + lo, r[2] + lo,
					r[0] + hi, r[1] + hi, r[3] + hi, r[2] + hi,
				})
			default:
				return nil, fmt.Errorf("cell %d: cannot extrude a %d vertex polygon", k, len(r))
			}
		}
	}
	return NewMesh(3, verts, rows)
}

// Grid3D builds nx*ny*nz voxel cells
func Grid3D(nx, ny, nz int, dx, dy, dz float64) (*Mesh, error) {
	base, err := Grid2D(nx, ny, dx, dy)
	if err != nil {
		return nil, err
	}
	return Extrude(base, nz, dz)
}

// Prism3D builds 2*nx*ny*nz wedge cells
func Prism3D(nx, ny, nz int, dx, dy, dz float64) (*Mesh, error) {
	base, err := Tri2D(nx, ny, dx, dy)
	if err != nil {
		return nil, err
	}
	return Extrude(base, nz, dz)
}

// voxelTets splits a voxel into six tetrahedra sharing the 0-7 diagonal
var voxelTets = [6][4]int{
	{0, 1, 3, 7},
	{0, 3, 2, 7},
	{0, 2, 6, 7},
	{0, 6, 4, 7},
	{0, 4, 5, 7},
	{0, 5, 1, 7},
}

// Tet3D builds 6*nx*ny*nz tetrahedra by splitting each Grid3D voxel
func Tet3D(nx, ny, nz int, dx, dy, dz float64) (*Mesh, error) {
	vox, err := Grid3D(nx, ny, nz, dx, dy, dz)
	if err != nil {
		return nil, err
	}
	rows := make([][]int, 0, 6*vox.NumberOfCells())
	for k := 0; k < vox.NumberOfCells(); k++ {
		r := vox.EToV.Row(k)
		for _, tet := range voxelTets {
			rows = append(rows, []int{r[tet[0]], r[tet[1]], r[tet[2]], r[tet[3]]})
		}
	}
	return NewMesh(3, vox.Vertices, rows)
}
