package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// MeshParameters selects either a mesh file or a generated mesh
type MeshParameters struct {
	File string    `json:"File"` // SU2 or Gambit neutral mesh file, overrides Type
	Type string    `json:"Type"` // Grid1D, Grid2D, Tri2D, Grid3D, Prism3D or Tet3D
	N    []int     `json:"N"`    // cell counts per direction
	D    []float64 `json:"D"`    // cell sizes per direction
}

// FieldParameters describes one cell variable. Values, when present, give
// one value per cell; otherwise Expression is evaluated at every cell center
// with x, y, z and the cell index i in scope.
type FieldParameters struct {
	Name       string    `json:"Name"`
	Expression string    `json:"Expression"`
	Values     []float64 `json:"Values"`
}

// Parameters obtained from the YAML input file
type ViewerParameters struct {
	Title    string              `json:"Title"`
	Mesh     MeshParameters      `json:"Mesh"`
	Fields   []FieldParameters   `json:"Fields"`
	Limits   map[string]*float64 `json:"Limits"` // xmin ... datamax, null means autoscale
	Snapshot string              `json:"Snapshot"`
}

func (vp *ViewerParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, vp)
}

func (vp *ViewerParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", vp.Title)
	if vp.Mesh.File != "" {
		fmt.Printf("[%s]\t\t= Mesh File\n", vp.Mesh.File)
	} else {
		fmt.Printf("[%s] N=%v D=%v\t= Mesh\n", vp.Mesh.Type, vp.Mesh.N, vp.Mesh.D)
	}
	for i, f := range vp.Fields {
		switch {
		case len(f.Values) != 0:
			fmt.Printf("Fields[%d] = %q, %d values\n", i, f.Name, len(f.Values))
		default:
			fmt.Printf("Fields[%d] = %q, %s\n", i, f.Name, f.Expression)
		}
	}
	keys := make([]string, len(vp.Limits))
	i := 0
	for k := range vp.Limits {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		if v := vp.Limits[key]; v != nil {
			fmt.Printf("Limits[%s] = %v\n", key, *v)
		} else {
			fmt.Printf("Limits[%s] = auto\n", key)
		}
	}
	if vp.Snapshot != "" {
		fmt.Printf("[%s]\t\t= Snapshot\n", vp.Snapshot)
	}
}
