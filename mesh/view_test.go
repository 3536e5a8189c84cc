package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/topology"
)

func TestViewContainment(t *testing.T) {
	b := cubeTetMesh().build(t)
	v := NewView[r3.Vec](b.Mesh)
	require.NoError(t, v.Add(b.Cells[0]))
	require.NoError(t, v.Add(b.Cells[3]))

	assert.Same(t, b.Mesh, v.Root())
	assert.Equal(t, Collection[r3.Vec](b.Mesh), v.Parent())
	assert.Equal(t, 2, v.Size(3))
	assert.Equal(t, 8, v.Size(2))
	for d := 0; d <= 3; d++ {
		for _, h := range v.Elements(d) {
			assert.Contains(t, b.Mesh.Elements(d), h)
			ve, err := v.Dereference(h)
			require.NoError(t, err)
			me, err := b.Mesh.Dereference(h)
			require.NoError(t, err)
			assert.Equal(t, me, ve)
		}
	}
	// Cells 0 and 3 share only the vertices 0 and 6 and the edge between them
	assert.Equal(t, 6, v.Size(0))
	assert.Equal(t, 11, v.Size(1))

	_, err := v.Dereference(b.Cells[1])
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.False(t, v.Contains(b.Cells[1]))
	assert.False(t, v.Contains(Handle{}))

	other := singleTetMesh().build(t)
	assert.ErrorIs(t, v.Add(other.Cells[0]), ErrInvalidHandle)
}

func TestViewOfView(t *testing.T) {
	m, err := NewMesh[r3.Vec](topology.Tet)
	require.NoError(t, err)
	var (
		v1 = NewView[r3.Vec](m)
		v2 = NewView[r3.Vec](v1)
	)
	assert.Same(t, m, v2.Root())

	// Cell inserted through the innermost view
	b := singleTetMesh().buildInto(t, v2)
	for _, c := range []Collection[r3.Vec]{m, v1, v2} {
		assert.Equal(t, b.Cells, c.Elements(3))
		assert.Equal(t, 4, c.Size(0))
		assert.Equal(t, 6, c.Size(1))
		assert.Equal(t, 4, c.Size(2))
	}

	// Independent cell inserted directly into the mesh
	var verts []Handle
	for _, p := range []r3.Vec{{X: 5}, {X: 6}, {X: 5, Y: 1}, {X: 5, Z: 1}} {
		verts = append(verts, m.CreateVertex(p))
	}
	cell, err := m.CreateElement(topology.Tet, verts)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Size(3))
	assert.Contains(t, m.Elements(3), cell)
	for _, c := range []Collection[r3.Vec]{v1, v2} {
		assert.Equal(t, 1, c.Size(3))
		assert.NotContains(t, c.Elements(3), cell)
		assert.False(t, c.Contains(cell))
		assert.Equal(t, 4, c.Size(0))
	}

	// Adding to an outer view leaves the inner one untouched
	require.NoError(t, v1.Add(cell))
	assert.Equal(t, 2, v1.Size(3))
	assert.Equal(t, 1, v2.Size(3))

	// Adding to the inner view records in every ancestor
	v3 := NewView[r3.Vec](m)
	v4 := NewView[r3.Vec](v3)
	require.NoError(t, v4.Add(cell))
	assert.True(t, v3.Contains(cell))
	assert.Equal(t, 4, v3.Size(2))
}

func TestViewCreateVertex(t *testing.T) {
	m, err := NewMesh[r3.Vec](topology.Triangle)
	require.NoError(t, err)
	v := NewView[r3.Vec](m)
	h := v.CreateVertex(r3.Vec{X: 1})
	assert.True(t, v.Contains(h))
	assert.True(t, m.Contains(h))
	p, err := m.Point(h)
	require.NoError(t, err)
	assert.Equal(t, 1., p.X)

	// Failed insertions leave the view alone
	_, err = v.CreateElement(topology.Line, []Handle{h, h})
	assert.ErrorIs(t, err, ErrDegenerateElement)
	assert.Zero(t, v.Size(1))
}

func TestViewIteration(t *testing.T) {
	b := cubeTetMesh().build(t)
	v := NewView[r3.Vec](b.Mesh)
	for _, i := range []int{4, 1, 2} {
		require.NoError(t, v.Add(b.Cells[i]))
	}
	var got []Handle
	for h := range v.All(3) {
		got = append(got, h)
	}
	// Recording order, not mesh order
	assert.Equal(t, []Handle{b.Cells[4], b.Cells[1], b.Cells[2]}, got)
	assert.Nil(t, v.Elements(7))
	assert.Zero(t, v.Size(-1))
}
