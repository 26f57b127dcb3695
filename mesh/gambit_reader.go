package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadGambitNeutral reads a Gambit neutral file
func ReadGambitNeutral(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseGambitNeutral(file)
}

// gambitElement is the vertex count and topological dimension of a Gambit
// NTYPE. Brick vertices are already in VTK voxel order.
type gambitElement struct {
	nodes, dim int
}

var gambitElements = map[int]gambitElement{
	1: {2, 1}, // Edge
	2: {4, 2}, // Quadrilateral
	3: {3, 2}, // Triangle
	4: {8, 3}, // Brick
	5: {6, 3}, // Wedge
	6: {4, 3}, // Tetrahedron
	7: {5, 3}, // Pyramid
}

// ParseGambitNeutral reads Gambit neutral format from r. Only cells whose
// topological dimension equals NDFCD are kept, so boundary edges of a 2D
// grid and boundary faces of a 3D grid are dropped. Element groups and
// boundary condition sets are skipped.
func ParseGambitNeutral(r io.Reader) (*Mesh, error) {
	var (
		scanner      = bufio.NewScanner(r)
		numnp, nelem int
		ndfcd        int
		hasHeader    bool
		vertices     [][]float64
		rows         [][]int
	)
	next := func() (string, bool) {
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}
	skipSection := func() {
		for {
			line, ok := next()
			if !ok || line == "ENDOFSECTION" {
				return
			}
		}
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		switch {
		case strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM"):
			values, _ := next()
			fields := strings.Fields(values)
			if len(fields) < 5 {
				return nil, fmt.Errorf("invalid problem size line: %q", values)
			}
			var err error
			if numnp, err = strconv.Atoi(fields[0]); err != nil {
				return nil, fmt.Errorf("invalid NUMNP: %w", err)
			}
			if nelem, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("invalid NELEM: %w", err)
			}
			if ndfcd, err = strconv.Atoi(fields[4]); err != nil {
				return nil, fmt.Errorf("invalid NDFCD: %w", err)
			}
			if ndfcd != 2 && ndfcd != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDFCD=%d", ndfcd)
			}
			hasHeader = true
			skipSection()

		case strings.HasPrefix(line, "NODAL COORDINATES"):
			if !hasHeader {
				return nil, fmt.Errorf("NODAL COORDINATES before problem size section")
			}
			vertices = make([][]float64, numnp)
			for {
				line, ok = next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				if line == "ENDOFSECTION" {
					break
				}
				fields := strings.Fields(line)
				if len(fields) < 1+ndfcd {
					return nil, fmt.Errorf("invalid node line: %q", line)
				}
				id, err := strconv.Atoi(fields[0])
				if err != nil || id < 1 || id > numnp {
					return nil, fmt.Errorf("invalid node ID %q", fields[0])
				}
				coords := make([]float64, ndfcd)
				for j := range coords {
					if coords[j], err = strconv.ParseFloat(fields[1+j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %w", err)
					}
				}
				vertices[id-1] = coords
			}
			for i, v := range vertices {
				if v == nil {
					return nil, fmt.Errorf("node %d missing from NODAL COORDINATES", i+1)
				}
			}

		case strings.HasPrefix(line, "ELEMENTS/CELLS"):
			if !hasHeader {
				return nil, fmt.Errorf("ELEMENTS/CELLS before problem size section")
			}
			rows = make([][]int, 0, nelem)
			for {
				line, ok = next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				if line == "ENDOFSECTION" {
					break
				}
				// NE NTYPE NDP NODE1 NODE2 ..., long node lists wrap
				fields := strings.Fields(line)
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid element line: %q", line)
				}
				ntype, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("invalid element type: %w", err)
				}
				el, known := gambitElements[ntype]
				if !known {
					return nil, fmt.Errorf("unknown element type: %d", ntype)
				}
				ndp, err := strconv.Atoi(fields[2])
				if err != nil || ndp != el.nodes {
					return nil, fmt.Errorf("element type %d expects %d nodes, got %q",
						ntype, el.nodes, fields[2])
				}
				ids := fields[3:]
				for len(ids) < ndp {
					more, ok := next()
					if !ok {
						return nil, fmt.Errorf("unexpected EOF reading element %s", fields[0])
					}
					ids = append(ids, strings.Fields(more)...)
				}
				if el.dim != ndfcd {
					continue
				}
				nodes := make([]int, ndp)
				for j := range nodes {
					v, err := strconv.Atoi(ids[j])
					if err != nil {
						return nil, fmt.Errorf("invalid node index: %w", err)
					}
					nodes[j] = v - 1
				}
				rows = append(rows, nodes)
			}

		case strings.HasPrefix(line, "ELEMENT GROUP"),
			strings.HasPrefix(line, "BOUNDARY CONDITIONS"):
			skipSection()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !hasHeader {
		return nil, fmt.Errorf("missing problem size section (NUMNP NELEM ...)")
	}
	return NewMesh(ndfcd, vertices, rows)
}
