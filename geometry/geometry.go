package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/topology"
)

// Simplex decompositions of the non-simplex tags in local vertex indices
var (
	quadSplit    = [][]int{{0, 1, 2}, {0, 2, 3}}
	prismSplit   = [][]int{{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5}}
	pyramidSplit = [][]int{{0, 1, 2, 4}, {0, 2, 3, 4}}
	// Six tets sharing the 0-6 diagonal
	hexSplit = [][]int{
		{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
		{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
	}
)

func points(c mesh.Collection[r3.Vec], h mesh.Handle) (el mesh.Element, pts []r3.Vec, err error) {
	if el, err = c.Dereference(h); err != nil {
		return
	}
	pts = make([]r3.Vec, len(el.Vertices))
	for i, v := range el.Vertices {
		if pts[i], err = c.Root().Point(v); err != nil {
			return
		}
	}
	return
}

// Centroid is the mean of the element's vertex coordinates
func Centroid(c mesh.Collection[r3.Vec], h mesh.Handle) (ctr r3.Vec, err error) {
	var pts []r3.Vec
	if _, pts, err = points(c, h); err != nil {
		return
	}
	for _, p := range pts {
		ctr = r3.Add(ctr, p)
	}
	ctr = r3.Scale(1/float64(len(pts)), ctr)
	return
}

// SignedTetVolume is positive when (b-a, c-a, d-a) is right handed
func SignedTetVolume(a, b, c, d r3.Vec) float64 {
	var (
		e1 = r3.Sub(b, a)
		e2 = r3.Sub(c, a)
		e3 = r3.Sub(d, a)
	)
	J := mat.NewDense(3, 3, []float64{
		e1.X, e2.X, e3.X,
		e1.Y, e2.Y, e3.Y,
		e1.Z, e2.Z, e3.Z,
	})
	return mat.Det(J) / 6
}

func triangleArea(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// Volume is the measure of an element in its own dimension: 1 for a vertex,
// length for a line, area for triangles and quads and volume for cells.
// Non-simplex elements are measured through a simplex decomposition, which
// is exact for planar faces.
func Volume(c mesh.Collection[r3.Vec], h mesh.Handle) (vol float64, err error) {
	var (
		el  mesh.Element
		pts []r3.Vec
	)
	if el, pts, err = points(c, h); err != nil {
		return
	}
	sum := func(split [][]int, measure func(p ...r3.Vec) float64) (v float64) {
		for _, s := range split {
			sp := make([]r3.Vec, len(s))
			for i, l := range s {
				sp[i] = pts[l]
			}
			v += measure(sp...)
		}
		return
	}
	area := func(p ...r3.Vec) float64 { return triangleArea(p[0], p[1], p[2]) }
	tet := func(p ...r3.Vec) float64 { return math.Abs(SignedTetVolume(p[0], p[1], p[2], p[3])) }

	switch el.Tag {
	case topology.Vertex:
		vol = 1
	case topology.Line:
		vol = r3.Norm(r3.Sub(pts[1], pts[0]))
	case topology.Triangle:
		vol = area(pts...)
	case topology.Quad:
		vol = sum(quadSplit, area)
	case topology.Tet:
		vol = tet(pts...)
	case topology.Hex:
		vol = sum(hexSplit, tet)
	case topology.Prism:
		vol = sum(prismSplit, tet)
	case topology.Pyramid:
		vol = sum(pyramidSplit, tet)
	default:
		err = fmt.Errorf("%w: no measure for %s", topology.ErrUnknownTag, el.Tag)
	}
	return
}

// TotalVolume sums the volumes of the cells of c
func TotalVolume(c mesh.Collection[r3.Vec]) (total float64, err error) {
	for h := range c.All(mesh.CellDim(c)) {
		var v float64
		if v, err = Volume(c, h); err != nil {
			return
		}
		total += v
	}
	return
}

// BoundingBox returns the min and max corners over the vertices of c
func BoundingBox(c mesh.Collection[r3.Vec]) (box r3.Box, err error) {
	first := true
	for h := range c.All(0) {
		var p r3.Vec
		if p, err = c.Root().Point(h); err != nil {
			return
		}
		if first {
			box.Min, box.Max, first = p, p, false
			continue
		}
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	return
}
