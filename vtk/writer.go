package vtk

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// WriteFile writes ds to a new file at path
func WriteFile(path string, ds *Dataset) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(file, ds)
}

// Write serializes ds in legacy ASCII format
func Write(w io.Writer, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	var (
		g     = ds.Grid
		ew    = &errWriter{w: bufio.NewWriter(w)}
		title = ds.Title
		size  int
	)
	if title == "" {
		title = DefaultTitle
	}
	title = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, title)
	if len(title) > maxTitleLength {
		n := maxTitleLength
		for n > 0 && !utf8.RuneStart(title[n]) {
			n--
		}
		title = title[:n]
	}
	ew.line(Version)
	ew.line(title)
	ew.line("ASCII")
	ew.line("DATASET UNSTRUCTURED_GRID")

	ew.line("POINTS", itoa(len(g.Points)), "float")
	for _, p := range g.Points {
		ew.line(ftoa(p[0]), ftoa(p[1]), ftoa(p[2]))
	}

	for _, c := range g.Cells {
		size += len(c) + 1
	}
	ew.line("CELLS", itoa(len(g.Cells)), itoa(size))
	row := make([]string, 0, 9)
	for _, c := range g.Cells {
		row = append(row[:0], itoa(len(c)))
		for _, id := range c {
			row = append(row, itoa(id))
		}
		ew.line(row...)
	}

	ew.line("CELL_TYPES", itoa(len(g.CellTypes)))
	for _, ct := range g.CellTypes {
		ew.line(itoa(ct))
	}

	if len(ds.CellData) > 0 {
		ew.line("CELL_DATA", itoa(len(g.Cells)))
		for _, s := range ds.CellData {
			lut := s.LookupTable
			if lut == "" {
				lut = DefaultLookupTable
			}
			ew.line("SCALARS", token(s.Name), "float", "1")
			ew.line("LOOKUP_TABLE", token(lut))
			for _, v := range s.Values {
				ew.line(ftoa(v))
			}
		}
	}
	return ew.flush()
}

// token makes a name safe for the whitespace separated body of the file
func token(name string) string {
	if name == "" {
		return "scalars"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}

func itoa(i int) string     { return strconv.Itoa(i) }
func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// errWriter holds the first write error so the body can be emitted without
// checking every line
type errWriter struct {
	w   *bufio.Writer
	err error
}

func (ew *errWriter) line(fields ...string) {
	if ew.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			if ew.err = ew.w.WriteByte(' '); ew.err != nil {
				return
			}
		}
		if _, ew.err = ew.w.WriteString(f); ew.err != nil {
			return
		}
	}
	ew.err = ew.w.WriteByte('\n')
}

func (ew *errWriter) flush() error {
	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}
