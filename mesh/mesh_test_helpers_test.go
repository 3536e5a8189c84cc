package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/topology"
)

// TestMesh is a small mesh definition shared by the tests in this package
type TestMesh struct {
	Name     string
	CellTag  topology.Tag
	Points   []r3.Vec
	Cells    [][]int
	CellTags []topology.Tag // Optional per cell override of CellTag
}

// Built is a TestMesh inserted into a Mesh
type Built struct {
	Mesh     *Mesh[r3.Vec]
	Vertices []Handle
	Cells    []Handle
}

var (
	cubeNodes = []r3.Vec{
		{X: 0, Y: 0, Z: 0}, // 0
		{X: 1, Y: 0, Z: 0}, // 1
		{X: 1, Y: 1, Z: 0}, // 2
		{X: 0, Y: 1, Z: 0}, // 3
		{X: 0, Y: 0, Z: 1}, // 4
		{X: 1, Y: 0, Z: 1}, // 5
		{X: 1, Y: 1, Z: 1}, // 6
		{X: 0, Y: 1, Z: 1}, // 7
	}
	tetraNodes = []r3.Vec{
		{X: 0, Y: 0, Z: 0}, // 0
		{X: 1, Y: 0, Z: 0}, // 1
		{X: 0, Y: 1, Z: 0}, // 2
		{X: 0, Y: 0, Z: 1}, // 3
		{X: 1, Y: 1, Z: 1}, // 4
	}
)

func singleTetMesh() TestMesh {
	return TestMesh{
		Name:    "SingleTet",
		CellTag: topology.Tet,
		Points:  tetraNodes[:4],
		Cells:   [][]int{{0, 1, 2, 3}},
	}
}

func twoTetMesh() TestMesh {
	return TestMesh{
		Name:    "TwoTet",
		CellTag: topology.Tet,
		Points:  tetraNodes,
		Cells: [][]int{
			{0, 1, 2, 3}, // Tet 0
			{1, 2, 3, 4}, // Tet 1 - shares face {1,2,3} with Tet 0
		},
	}
}

// cubeTetMesh is the unit cube split into six tets around the 0-6 diagonal
func cubeTetMesh() TestMesh {
	return TestMesh{
		Name:    "CubeTets",
		CellTag: topology.Tet,
		Points:  cubeNodes,
		Cells: [][]int{
			{0, 1, 2, 6},
			{0, 2, 3, 6},
			{0, 3, 7, 6},
			{0, 7, 4, 6},
			{0, 4, 5, 6},
			{0, 5, 1, 6},
		},
	}
}

func singleHexMesh() TestMesh {
	return TestMesh{
		Name:    "SingleHex",
		CellTag: topology.Hex,
		Points:  cubeNodes,
		Cells:   [][]int{{0, 1, 2, 3, 4, 5, 6, 7}},
	}
}

// hexPairMesh stacks two unit hexes along z, sharing the face {4,5,6,7}
func hexPairMesh() TestMesh {
	pts := append([]r3.Vec(nil), cubeNodes...)
	for _, p := range cubeNodes[4:] {
		pts = append(pts, r3.Vec{X: p.X, Y: p.Y, Z: 2})
	}
	return TestMesh{
		Name:    "HexPair",
		CellTag: topology.Hex,
		Points:  pts,
		Cells: [][]int{
			{0, 1, 2, 3, 4, 5, 6, 7},
			{4, 5, 6, 7, 8, 9, 10, 11},
		},
	}
}

// mixedMesh is a hex with a prism on its +x face and a pyramid on its top
func mixedMesh() TestMesh {
	pts := append([]r3.Vec(nil), cubeNodes...)
	pts = append(pts,
		r3.Vec{X: 2, Y: 0, Z: 0},     // 8
		r3.Vec{X: 2, Y: 0, Z: 1},     // 9
		r3.Vec{X: 0.5, Y: 0.5, Z: 2}, // 10
	)
	return TestMesh{
		Name:    "Mixed",
		CellTag: topology.Hex,
		Points:  pts,
		Cells: [][]int{
			{0, 1, 2, 3, 4, 5, 6, 7},
			{1, 8, 2, 5, 9, 6},
			{4, 5, 6, 7, 10},
		},
		CellTags: []topology.Tag{topology.Hex, topology.Prism, topology.Pyramid},
	}
}

func standardTestMeshes() []TestMesh {
	return []TestMesh{
		singleTetMesh(),
		twoTetMesh(),
		cubeTetMesh(),
		singleHexMesh(),
		hexPairMesh(),
		mixedMesh(),
	}
}

func (tm TestMesh) tag(i int) topology.Tag {
	if tm.CellTags != nil {
		return tm.CellTags[i]
	}
	return tm.CellTag
}

// build inserts the test mesh into c, which must be rooted at a mesh with
// a compatible cell tag
func (tm TestMesh) buildInto(t *testing.T, c Collection[r3.Vec]) (b Built) {
	t.Helper()
	b.Mesh = c.Root()
	for _, p := range tm.Points {
		b.Vertices = append(b.Vertices, c.CreateVertex(p))
	}
	for i, cell := range tm.Cells {
		verts := make([]Handle, len(cell))
		for j, v := range cell {
			verts[j] = b.Vertices[v]
		}
		h, err := c.CreateElement(tm.tag(i), verts)
		require.NoError(t, err, "%s cell %d", tm.Name, i)
		b.Cells = append(b.Cells, h)
	}
	return
}

func (tm TestMesh) build(t *testing.T) Built {
	t.Helper()
	m, err := NewMesh[r3.Vec](tm.CellTag)
	require.NoError(t, err)
	return tm.buildInto(t, m)
}
