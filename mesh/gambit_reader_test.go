package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSquares = `        CONTROL INFO 2.4.6
** GAMBIT NEUTRAL FILE
two squares
PROGRAM:                Gambit     VERSION:  2.4.6
Oct 2026
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         6         4         1         1         2         2
ENDOFSECTION
   NODAL COORDINATES 2.4.6
         1   0.0000000000e+00   0.0000000000e+00
         2   1.0000000000e+00   0.0000000000e+00
         3   2.0000000000e+00   0.0000000000e+00
         4   0.0000000000e+00   1.0000000000e+00
         5   1.0000000000e+00   1.0000000000e+00
         6   2.0000000000e+00   1.0000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.4.6
       1  2  4        1       2       5       4
       2  3  3        2       3       6
       3  3  3        2       6       5
       4  1  2        1       2
ENDOFSECTION
       ELEMENT GROUP 2.4.6
GROUP:          1 ELEMENTS:          3 MATERIAL:          2 NFLAGS:          1
                           fluid
       0
       1       2       3
ENDOFSECTION
 BOUNDARY CONDITIONS 2.4.6
                    Wall       1       1       0       6
       4       1       1
ENDOFSECTION
`

const wrappedBrick = `     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8         1         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.4.6
         1   0 0 0
         2   1 0 0
         3   0 1 0
         4   1 1 0
         5   0 0 1
         6   1 0 1
         7   0 1 1
         8   1 1 1
ENDOFSECTION
      ELEMENTS/CELLS 2.4.6
       1  4  8        1       2       3       4       5       6       7
                      8
ENDOFSECTION
`

func TestParseGambitNeutral(t *testing.T) {
	t.Run("2D mixed cells", func(t *testing.T) {
		m, err := ParseGambitNeutral(strings.NewReader(twoSquares))
		require.NoError(t, err)
		assert.Equal(t, 2, m.Dim())
		assert.Equal(t, 6, m.NumberOfVertices())
		require.Equal(t, 3, m.NumberOfCells())
		assert.Equal(t, []int{0, 1, 4, 3}, m.EToV.Row(0))
		assert.Equal(t, []int{1, 2, 5}, m.EToV.Row(1))
		assert.Equal(t, []int{1, 5, 4}, m.EToV.Row(2))
		assert.Equal(t, []float64{2, 1}, m.Vertices[5])
	})
	t.Run("3D wrapped node list", func(t *testing.T) {
		m, err := ParseGambitNeutral(strings.NewReader(wrappedBrick))
		require.NoError(t, err)
		assert.Equal(t, 3, m.Dim())
		require.Equal(t, 1, m.NumberOfCells())
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, m.EToV.Row(0))
	})

	testCases := []struct {
		name, content, errMsg string
	}{
		{"no header", "   NODAL COORDINATES 2.4.6\n1 0 0\nENDOFSECTION\n", "before problem size"},
		{"empty", "", "missing problem size"},
		{"bad dimension", "NUMNP NELEM NGRPS NBSETS NDFCD NDFVL\n1 0 0 0 4 4\nENDOFSECTION\n", "NDFCD=4"},
		{"unknown type", strings.Replace(wrappedBrick, "1  4  8", "1  9  8", 1), "unknown element type"},
		{"wrong node count", strings.Replace(wrappedBrick, "1  4  8", "1  4  6", 1), "expects 8 nodes"},
		{"missing node", strings.Replace(wrappedBrick, "         8   1 1 1\n", "", 1), "node 8 missing"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseGambitNeutral(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestReadMeshFileGambit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squares.NEU")
	require.NoError(t, os.WriteFile(path, []byte(twoSquares), 0644))
	m, err := ReadMeshFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumberOfCells())

	_, err = ReadGambitNeutral(filepath.Join(t.TempDir(), "missing.neu"))
	assert.Error(t, err)
}
