package mesh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/topology"
)

// EToF holds the neighbor's local facet index, so connectivity must be
// reciprocal: if cell A's facet i meets cell B's facet j, then B's facet j
// meets A's facet i.
func TestBuildConnectivity_Reciprocal(t *testing.T) {
	for _, tm := range standardTestMeshes() {
		t.Run(tm.Name, func(t *testing.T) {
			b := tm.build(t)
			conn, err := BuildConnectivity[r3.Vec](b.Mesh)
			require.NoError(t, err)
			require.Len(t, conn.EToE, len(b.Cells))
			for elemID := range conn.EToE {
				for face, neighbor := range conn.EToE[elemID] {
					if neighbor < 0 {
						assert.Equal(t, -1, conn.EToF[elemID][face])
						continue
					}
					nface := conn.EToF[elemID][face]
					assert.Equal(t, elemID, conn.EToE[neighbor][nface],
						"cell %d face %d -> cell %d face %d", elemID, face, neighbor, nface)
					assert.Equal(t, face, conn.EToF[neighbor][nface])
				}
			}
			assert.Equal(t, b.Mesh.Size(2), conn.NumFaces())
		})
	}
}

func TestBuildConnectivity_TwoTets(t *testing.T) {
	b := twoTetMesh().build(t)
	conn, err := BuildConnectivity[r3.Vec](b.Mesh)
	require.NoError(t, err)

	// Face 2 of tet 0 is {1,2,3}, the same face is face 0 of tet 1
	assert.Equal(t, []int{-1, -1, 1, -1}, conn.EToE[0])
	assert.Equal(t, []int{0, -1, -1, -1}, conn.EToE[1])
	assert.Equal(t, 2, conn.EToF[1][0])
	assert.Equal(t, 0, conn.EToF[0][2])
	assert.Equal(t, 6, conn.BoundaryFaces)
	assert.Equal(t, 7, conn.NumFaces())

	shared, ok := b.Mesh.Find(2, b.Vertices[1:4])
	require.True(t, ok)
	face := conn.Faces[conn.FaceMap[shared]]
	assert.Equal(t, 0, face.Element)
	assert.Equal(t, 2, face.LocalID)
}

func TestBuildConnectivity_BoundaryFaces(t *testing.T) {
	tests := []struct {
		tm   TestMesh
		nbnd int
	}{
		{singleTetMesh(), 4},
		{cubeTetMesh(), 12},
		{hexPairMesh(), 10},
		{mixedMesh(), 4 + 4 + 4},
	}
	for _, tt := range tests {
		t.Run(tt.tm.Name, func(t *testing.T) {
			b := tt.tm.build(t)
			conn, err := BuildConnectivity[r3.Vec](b.Mesh)
			require.NoError(t, err)
			assert.Equal(t, tt.nbnd, conn.BoundaryFaces)
			bnd, err := BoundaryElements[r3.Vec](b.Mesh, 2)
			require.NoError(t, err)
			assert.Len(t, bnd, tt.nbnd)
		})
	}
}

func TestBoundaryOperator(t *testing.T) {
	for _, tm := range standardTestMeshes() {
		t.Run(tm.Name, func(t *testing.T) {
			b := tm.build(t)
			var D [4]mat.Matrix
			for k := 1; k <= 3; k++ {
				Dk, err := BoundaryOperator[r3.Vec](b.Mesh, k)
				require.NoError(t, err)
				nr, nc := Dk.Dims()
				assert.Equal(t, b.Mesh.Size(k-1), nr)
				assert.Equal(t, b.Mesh.Size(k), nc)
				D[k] = Dk
			}
			// The boundary of a boundary is empty
			for k := 2; k <= 3; k++ {
				var DD mat.Dense
				DD.Mul(D[k-1], D[k])
				nr, nc := DD.Dims()
				for i := 0; i < nr; i++ {
					for j := 0; j < nc; j++ {
						require.Zero(t, DD.At(i, j), "d%d*d%d at (%d,%d)", k-1, k, i, j)
					}
				}
			}
		})
	}
}

func TestBoundaryOperator_Values(t *testing.T) {
	b := singleTetMesh().build(t)
	D3, err := BoundaryOperator[r3.Vec](b.Mesh, 3)
	require.NoError(t, err)
	// Faces are created in table order with their induced orientation
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1., D3.At(i, 0))
	}
	D1, err := BoundaryOperator[r3.Vec](b.Mesh, 1)
	require.NoError(t, err)
	for j := 0; j < b.Mesh.Size(1); j++ {
		col := mat.Col(nil, j, D1)
		assert.Equal(t, 0., col[0]+col[1]+col[2]+col[3])
	}

	_, err = BoundaryOperator[r3.Vec](b.Mesh, 0)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = BoundaryOperator[r3.Vec](b.Mesh, 4)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	empty, err := NewMesh[r3.Vec](topology.Tet)
	require.NoError(t, err)
	_, err = BoundaryOperator[r3.Vec](empty, 1)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestAttributeStore(t *testing.T) {
	b := twoTetMesh().build(t)
	as := NewAttributeStore[float64]()
	as.Set(b.Cells[1], 2.5)
	as.Set(b.Vertices[3], 1)
	as.Set(b.Cells[0], 0.5)
	assert.Equal(t, 3, as.Len())

	v, ok := as.Get(b.Cells[1])
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	_, ok = as.Get(b.Vertices[0])
	assert.False(t, ok)

	var order []Handle
	for h := range as.All() {
		order = append(order, h)
	}
	assert.Equal(t, []Handle{b.Vertices[3], b.Cells[0], b.Cells[1]}, order)

	as.Delete(b.Vertices[3])
	assert.Equal(t, 2, as.Len())
	// Handles from the mesh stay valid as it grows
	b.Mesh.CreateVertex(r3.Vec{})
	v, ok = as.Get(b.Cells[0])
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestPrintStatistics(t *testing.T) {
	b := mixedMesh().build(t)
	var buf bytes.Buffer
	FprintStatistics[r3.Vec](&buf, b.Mesh)
	out := buf.String()
	assert.Contains(t, out, "Mesh Statistics:")
	assert.Contains(t, out, "  Dimension 0: 11\n")
	assert.Contains(t, out, "    Hex: 1\n")
	assert.Contains(t, out, "    Prism: 1\n")
	assert.Contains(t, out, "    Pyramid: 1\n")
	assert.Contains(t, out, "  Boundary faces: 12\n")
}
