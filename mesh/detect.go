package mesh

import (
	"fmt"
)

// boundaryFlags caches facet reference counts over a collection's cells and
// the resulting boundary flags of every element below the cell dimension
type boundaryFlags struct {
	refs     map[Handle]int
	boundary map[Handle]bool
	err      error
}

func detectBoundary[P any](c Collection[P]) *boundaryFlags {
	var (
		cc      = c.caches()
		cellDim = CellDim(c)
		root    = c.Root()
	)
	if cc.boundary != nil {
		return cc.boundary
	}
	bf := &boundaryFlags{
		refs:     make(map[Handle]int),
		boundary: make(map[Handle]bool),
	}
	for _, cell := range c.Elements(cellDim) {
		for _, f := range root.element(cell).Facets {
			bf.refs[f]++
		}
	}
	for _, facet := range c.Elements(cellDim - 1) {
		switch n := bf.refs[facet]; {
		case n > 2:
			bf.err = fmt.Errorf("%w: facet %v is shared by %d cells",
				ErrTopologyInconsistency, facet, n)
			cc.boundary = bf
			return bf
		case n == 1:
			markClosure(root, facet, bf.boundary)
		}
	}
	cc.boundary = bf
	return bf
}

func markClosure[P any](m *Mesh[P], h Handle, marks map[Handle]bool) {
	if marks[h] {
		return
	}
	marks[h] = true
	if h.dim == 0 {
		return
	}
	for _, f := range m.element(h).Facets {
		markClosure(m, f, marks)
	}
}

// IsBoundary reports whether h lies on the boundary of collection c. A facet
// is on the boundary when exactly one cell of c references it; lower
// dimensional elements are on the boundary when they bound such a facet.
// Cells are never boundary elements. A facet referenced by more than two
// cells makes the collection non-manifold and yields ErrTopologyInconsistency.
func IsBoundary[P any](c Collection[P], h Handle) (bool, error) {
	if !c.Contains(h) {
		return false, fmt.Errorf("%w: %v is not in the collection", ErrInvalidHandle, h)
	}
	bf := detectBoundary(c)
	if bf.err != nil {
		return false, bf.err
	}
	return bf.boundary[h], nil
}

// BoundaryElements returns the boundary elements of dimension dim in the
// collection's iteration order
func BoundaryElements[P any](c Collection[P], dim int) (hs []Handle, err error) {
	if err = checkDim(c, dim); err != nil {
		return
	}
	bf := detectBoundary(c)
	if bf.err != nil {
		return nil, bf.err
	}
	for _, h := range c.Elements(dim) {
		if bf.boundary[h] {
			hs = append(hs, h)
		}
	}
	return
}

// CheckManifold returns ErrTopologyInconsistency if any facet of c is shared
// by more than two cells
func CheckManifold[P any](c Collection[P]) error {
	return detectBoundary(c).err
}
