package vtk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadFile reads a legacy ASCII unstructured grid from path
func ReadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read parses a legacy ASCII unstructured grid with optional cell scalars.
// Point data and other attribute kinds are rejected.
func Read(r io.Reader) (ds *Dataset, err error) {
	var (
		br   = bufio.NewReader(r)
		line string
	)
	if line, err = readLine(br); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "# vtk DataFile") {
		return nil, fmt.Errorf("%w: missing version header", ErrFormat)
	}
	ds = &Dataset{}
	if ds.Title, err = readLine(br); err != nil {
		return nil, err
	}

	tk := newTokenizer(br)
	if kw := tk.next(); kw != "ASCII" {
		return nil, fmt.Errorf("%w: only ASCII files are supported, got %q", ErrFormat, kw)
	}
	if kw, kind := tk.next(), tk.next(); kw != "DATASET" || kind != "UNSTRUCTURED_GRID" {
		return nil, fmt.Errorf("%w: expected DATASET UNSTRUCTURED_GRID, got %s %s", ErrFormat, kw, kind)
	}

	var (
		g         = &ds.Grid
		nCellData = -1
	)
	for kw := tk.next(); kw != ""; kw = tk.next() {
		switch kw {
		case "POINTS":
			n := tk.int()
			tk.next() // data type
			g.Points = make([][3]float64, n)
			for i := range g.Points {
				for d := 0; d < 3; d++ {
					g.Points[i][d] = tk.float()
				}
			}
		case "CELLS":
			n := tk.int()
			tk.int() // total size
			g.Cells = make([][]int, n)
			for k := range g.Cells {
				np := tk.int()
				if tk.err != nil {
					break
				}
				if np < 0 {
					return nil, fmt.Errorf("%w: cell %d has negative size", ErrFormat, k)
				}
				g.Cells[k] = make([]int, np)
				for i := range g.Cells[k] {
					g.Cells[k][i] = tk.int()
				}
			}
		case "CELL_TYPES":
			g.CellTypes = make([]int, tk.int())
			for k := range g.CellTypes {
				g.CellTypes[k] = tk.int()
			}
		case "CELL_DATA":
			nCellData = tk.int()
		case "SCALARS":
			if nCellData < 0 {
				return nil, fmt.Errorf("%w: SCALARS outside CELL_DATA", ErrFormat)
			}
			s := Scalars{Name: tk.next()}
			tk.next() // data type
			// component count is optional and must be 1 when present
			next := tk.next()
			if next != "LOOKUP_TABLE" {
				if next != "1" {
					return nil, fmt.Errorf("%w: scalars %q with %s components", ErrFormat, s.Name, next)
				}
				next = tk.next()
			}
			if next != "LOOKUP_TABLE" {
				return nil, fmt.Errorf("%w: expected LOOKUP_TABLE, got %q", ErrFormat, next)
			}
			s.LookupTable = tk.next()
			s.Values = make([]float64, nCellData)
			for i := range s.Values {
				s.Values[i] = tk.float()
			}
			ds.CellData = append(ds.CellData, s)
		default:
			return nil, fmt.Errorf("%w: unsupported section %q", ErrFormat, kw)
		}
		if tk.err != nil {
			return nil, fmt.Errorf("%w: in %s section: %v", ErrFormat, kw, tk.err)
		}
	}
	if tk.err != nil && tk.err != io.EOF {
		return nil, tk.err
	}
	if err = ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			err = fmt.Errorf("%w: unexpected end of header", ErrFormat)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// tokenizer walks the whitespace separated body of the file, recording the
// first conversion or read error
type tokenizer struct {
	sc  *bufio.Scanner
	err error
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

// next returns the next token, or "" at the end of input or after an error
func (tk *tokenizer) next() string {
	if tk.err != nil {
		return ""
	}
	if !tk.sc.Scan() {
		if tk.err = tk.sc.Err(); tk.err == nil {
			tk.err = io.EOF
		}
		return ""
	}
	return tk.sc.Text()
}

func (tk *tokenizer) int() int {
	s := tk.next()
	if tk.err != nil {
		return 0
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		tk.err = err
	}
	return i
}

func (tk *tokenizer) float() float64 {
	s := tk.next()
	if tk.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		tk.err = err
	}
	return f
}
