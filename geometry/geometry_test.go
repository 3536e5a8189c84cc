package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/topology"
)

var cube = []r3.Vec{
	{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
}

func buildMesh(t *testing.T, cellTag topology.Tag, pts []r3.Vec, tag topology.Tag,
	cells ...[]int) (m *mesh.Mesh[r3.Vec], hs []mesh.Handle) {
	t.Helper()
	m, err := mesh.NewMesh[r3.Vec](cellTag)
	require.NoError(t, err)
	verts := make([]mesh.Handle, len(pts))
	for i, p := range pts {
		verts[i] = m.CreateVertex(p)
	}
	for _, cell := range cells {
		vs := make([]mesh.Handle, len(cell))
		for j, v := range cell {
			vs[j] = verts[v]
		}
		h, err := m.CreateElement(tag, vs)
		require.NoError(t, err)
		hs = append(hs, h)
	}
	return
}

func TestVolume(t *testing.T) {
	tests := []struct {
		name  string
		tag   topology.Tag
		pts   []r3.Vec
		verts []int
		want  float64
	}{
		{"Tet", topology.Tet, cube, []int{0, 1, 3, 4}, 1. / 6},
		{"Hex", topology.Hex, cube, []int{0, 1, 2, 3, 4, 5, 6, 7}, 1},
		{"Prism", topology.Prism, cube, []int{0, 1, 3, 4, 5, 7}, 0.5},
		{"Pyramid", topology.Pyramid, append(cube[:4:4], r3.Vec{X: 0.5, Y: 0.5, Z: 1}),
			[]int{0, 1, 2, 3, 4}, 1. / 3},
		{"Quad", topology.Quad, cube, []int{0, 1, 2, 3}, 1},
		{"Triangle", topology.Triangle, cube, []int{0, 1, 3}, 0.5},
		{"Line", topology.Line, cube, []int{0, 6}, 1.7320508075688772},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cellTag := tt.tag
			if tt.tag.Dim() < 3 {
				cellTag = topology.Hex
			}
			m, hs := buildMesh(t, cellTag, tt.pts, tt.tag, tt.verts)
			vol, err := Volume(m, hs[0])
			require.NoError(t, err)
			assert.InDelta(t, tt.want, vol, 1e-12)
		})
	}
}

func TestTotalVolume_CubeOfTets(t *testing.T) {
	m, hs := buildMesh(t, topology.Tet, cube, topology.Tet,
		[]int{0, 1, 2, 6}, []int{0, 2, 3, 6}, []int{0, 3, 7, 6},
		[]int{0, 7, 4, 6}, []int{0, 4, 5, 6}, []int{0, 5, 1, 6},
	)
	require.Len(t, hs, 6)
	total, err := TotalVolume(m)
	require.NoError(t, err)
	assert.InDelta(t, 1., total, 1e-12)

	// A view of half the cells sees half the volume
	v := mesh.NewView[r3.Vec](m)
	for _, h := range hs[:3] {
		require.NoError(t, v.Add(h))
	}
	half, err := TotalVolume(v)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, half, 1e-12)
}

func TestSignedTetVolume(t *testing.T) {
	assert.InDelta(t, 1./6, SignedTetVolume(cube[0], cube[1], cube[3], cube[4]), 1e-15)
	assert.InDelta(t, -1./6, SignedTetVolume(cube[0], cube[3], cube[1], cube[4]), 1e-15)
	assert.InDelta(t, 0., SignedTetVolume(cube[0], cube[1], cube[2], cube[3]), 1e-15)
}

func TestCentroid(t *testing.T) {
	m, hs := buildMesh(t, topology.Hex, cube, topology.Hex, []int{0, 1, 2, 3, 4, 5, 6, 7})
	ctr, err := Centroid(m, hs[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ctr.X, 1e-15)
	assert.InDelta(t, 0.5, ctr.Y, 1e-15)
	assert.InDelta(t, 0.5, ctr.Z, 1e-15)

	_, err = Centroid(m, mesh.Handle{})
	assert.ErrorIs(t, err, mesh.ErrInvalidHandle)
	_, err = Volume(m, mesh.Handle{})
	assert.ErrorIs(t, err, mesh.ErrInvalidHandle)
}

func TestBoundingBox(t *testing.T) {
	m, _ := buildMesh(t, topology.Hex, cube, topology.Hex, []int{0, 1, 2, 3, 4, 5, 6, 7})
	box, err := BoundingBox(m)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{}, box.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, box.Max)
}
