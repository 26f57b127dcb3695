package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".su2":
		return ReadSU2(filename)
	case ".neu":
		return ReadGambitNeutral(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseSU2(file)
}

// su2Nodes gives the vertex count of each SU2/VTK element type identifier
var su2Nodes = map[int]int{
	3:  2, // VTK_LINE
	5:  3, // VTK_TRIANGLE
	9:  4, // VTK_QUAD
	10: 4, // VTK_TETRA
	12: 8, // VTK_HEXAHEDRON
	13: 6, // VTK_WEDGE
	14: 5, // VTK_PYRAMID
}

// hexToVoxel reorders a VTK hexahedron into VTK voxel vertex order
var hexToVoxel = [8]int{0, 1, 3, 2, 4, 5, 7, 6}

// ParseSU2 reads SU2 native format from r. Boundary markers are skipped.
func ParseSU2(r io.Reader) (*Mesh, error) {
	var (
		err                error
		scanner            = bufio.NewScanner(r)
		ndime              int
		hasNDIME, hasNPOIN bool
		vertices           [][]float64
		rows               [][]int
		nextLine           func() (string, bool)
	)
	nextLine = func() (string, bool) {
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			// Skip comments (text after %)
			if idx := strings.Index(line, "%"); idx >= 0 {
				line = strings.TrimSpace(line[:idx])
			}
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			fmt.Sscanf(line, "NDIME=%d", &ndime)
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)
			vertices = make([][]float64, npoin)
			for i := 0; i < npoin; i++ {
				pl, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(pl)
				if len(fields) < ndime {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", ndime)
				}
				coords := make([]float64, ndime)
				for j := 0; j < ndime; j++ {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %w", err)
					}
				}
				// Node ID is implicit (0-based) based on order
				vertices[i] = coords
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)
			rows = make([][]int, 0, nelem)
			for i := 0; i < nelem; i++ {
				el, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(el)
				su2Type, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("invalid element type: %w", err)
				}
				numNodes, ok := su2Nodes[su2Type]
				if !ok {
					return nil, fmt.Errorf("unknown element type: %d", su2Type)
				}
				if len(fields) < numNodes+1 {
					return nil, fmt.Errorf("element type %d expects %d nodes, got %d fields",
						su2Type, numNodes, len(fields)-1)
				}
				nodes := make([]int, numNodes)
				for j := range nodes {
					if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
						return nil, fmt.Errorf("invalid node index: %w", err)
					}
				}
				if su2Type == 12 {
					hex := nodes
					nodes = make([]int, 8)
					for j, src := range hexToVoxel {
						nodes[j] = hex[src]
					}
				}
				rows = append(rows, nodes)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)
			for i := 0; i < nmark; i++ {
				if _, ok := nextLine(); !ok { // MARKER_TAG=
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				elemLine, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				var nMarkerElems int
				if _, err := fmt.Sscanf(elemLine, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", elemLine)
				}
				for j := 0; j < nMarkerElems; j++ {
					if _, ok := nextLine(); !ok {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements")
					}
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	return NewMesh(ndime, vertices, rows)
}
