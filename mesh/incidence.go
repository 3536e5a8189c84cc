package mesh

import (
	"fmt"
	"slices"

	"github.com/notargets/meshtopo/topology"
)

// Boundary returns the k-dimensional elements bounding h. For k = dim(h)-1
// these are the stored facets in facet table order, for k = 0 the defining
// vertices in defining order, otherwise the closure in the order of the tag's
// sub-element table.
func Boundary[P any](c Collection[P], h Handle, k int) (bnd []Handle, err error) {
	var (
		el Element
	)
	if el, err = c.Dereference(h); err != nil {
		return
	}
	if k < 0 || k >= h.Dim() {
		err = fmt.Errorf("%w: boundary of a %d-element at dimension %d",
			ErrInvalidDimension, h.Dim(), k)
		return
	}
	switch k {
	case 0:
		return slices.Clone(el.Vertices), nil
	case h.Dim() - 1:
		return slices.Clone(el.Facets), nil
	}
	var (
		root = c.Root()
		subs = topology.SubElements(el.Tag, k)
	)
	bnd = make([]Handle, len(subs))
	for i, se := range subs {
		verts := make([]Handle, len(se.Vertices))
		for j, lv := range se.Vertices {
			verts[j] = el.Vertices[lv]
		}
		var ok bool
		if bnd[i], ok = root.Find(k, verts); !ok {
			// Every sub-element is created with its element
			return nil, fmt.Errorf("%w: %s of %v missing from the mesh",
				ErrTopologyInconsistency, se.Tag, h)
		}
	}
	return
}

// BoundarySigns returns the facets of h together with their incidence signs
// in h's oriented boundary chain
func BoundarySigns[P any](c Collection[P], h Handle) (facets []Handle, signs []int, err error) {
	var (
		el Element
	)
	if el, err = c.Dereference(h); err != nil {
		return
	}
	if h.Dim() == 0 {
		err = fmt.Errorf("%w: vertices have no boundary", ErrInvalidDimension)
		return
	}
	return slices.Clone(el.Facets), slices.Clone(el.Signs), nil
}

// IsBoundaryOf reports whether h is part of the boundary of element of
func IsBoundaryOf[P any](c Collection[P], h, of Handle) (bool, error) {
	if !c.Contains(h) {
		return false, fmt.Errorf("%w: %v is not in the collection", ErrInvalidHandle, h)
	}
	if h.Dim() >= of.Dim() {
		if _, err := c.Dereference(of); err != nil {
			return false, err
		}
		return false, nil
	}
	bnd, err := Boundary(c, of, h.Dim())
	if err != nil {
		return false, err
	}
	return slices.Contains(bnd, h), nil
}

// Closure returns h and every element of its boundary, highest dimension first
func Closure[P any](c Collection[P], h Handle) (closure []Handle, err error) {
	if _, err = c.Dereference(h); err != nil {
		return
	}
	closure = append(closure, h)
	for k := h.Dim() - 1; k >= 0; k-- {
		var bnd []Handle
		if bnd, err = Boundary(c, h, k); err != nil {
			return nil, err
		}
		closure = append(closure, bnd...)
	}
	return
}
