package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshtopo/InputParameters"
	"github.com/notargets/meshtopo/mesh"
)

const twoTetGrid = `NDIME= 3
NPOIN= 5
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
0.0 0.0 1.0
1.0 1.0 1.0
NELEM= 2
10 0 1 2 3
10 1 2 3 4
NMARK= 2
MARKER_TAG= bottom
MARKER_ELEMS= 1
5 0 2 1
MARKER_TAG= outer
MARKER_ELEMS= 3
5 1 4 2
5 2 4 3
5 3 4 1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))
	return fileName
}

func TestRunTopo(t *testing.T) {
	mt := &ModelTopo{
		GridFile: writeFile(t, "tets.su2", twoTetGrid),
		ICFile: writeFile(t, "input.yaml", `
Title: Two Tets
CellType: Tet
CheckManifold: true
PrintBoundary: true
Incidence:
  - [2, 3]
  - [0, 3]
`),
	}
	ip, err := readTopoParameters(mt.ICFile)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, RunTopo(&out, mt, ip))
	s := out.String()
	for _, line := range []string{
		"Two Tets\n",
		"  Dimension 0: 5\n",
		"  Dimension 1: 9\n",
		"  Dimension 2: 7\n",
		"  Dimension 3: 2\n",
		"    Tet: 2\n",
		"  Boundary faces: 6\n",
		"  Total measure:  0.50000\n",
		"  bottom: 3 3 1\n",
		"  outer: 4 6 3\n",
		"Manifold check passed\n",
		"Incidence 2 -> 3: min 1, max 2, mean  1.14286\n",
		"Incidence 0 -> 3: min 1, max 2, mean  1.60000\n",
	} {
		assert.Contains(t, s, line)
	}
	// Every edge of the shared face also lies on an outer face
	assert.Contains(t, s, "Boundary:\n  Dimension 0: 5\n  Dimension 1: 9\n  Dimension 2: 6\n")
}

func TestRunTopoErrors(t *testing.T) {
	grid := writeFile(t, "tets.su2", twoTetGrid)
	var out bytes.Buffer

	ip := &InputParameters.TopoParameters{CellType: "Hex"}
	err := RunTopo(&out, &ModelTopo{GridFile: grid}, ip)
	assert.ErrorContains(t, err, "expected Hex")

	ip = &InputParameters.TopoParameters{Markers: []string{"inlet"}}
	err = RunTopo(&out, &ModelTopo{GridFile: grid}, ip)
	assert.ErrorContains(t, err, "marker inlet not found")

	// The target dimension is beyond the cells of the grid
	ip = &InputParameters.TopoParameters{Incidence: [][2]int{{0, 3}}}
	err = RunTopo(&out, &ModelTopo{GridFile: writeFile(t, "quads.su2", `NDIME= 2
NPOIN= 4
0 0
1 0
1 1
0 1
NELEM= 1
9 0 1 2 3
`)}, ip)
	assert.ErrorIs(t, err, mesh.ErrInvalidDimension)

	_, err = readTopoParameters(writeFile(t, "bad.yaml", "CellType: Octahedron\n"))
	assert.Error(t, err)
	ip, err = readTopoParameters("")
	require.NoError(t, err)
	assert.Equal(t, &InputParameters.TopoParameters{}, ip)
}
