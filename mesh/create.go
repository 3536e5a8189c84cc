package mesh

import (
	"fmt"

	"github.com/notargets/meshtopo/topology"
	"github.com/notargets/meshtopo/types"
)

// CreateElement finds or inserts the element of topology tag defined by the
// given vertices, first generating every missing boundary sub-element. The
// arguments are validated before anything is inserted, so a failed call
// leaves the mesh unchanged. A facet matching a stored element's vertex set
// in an order that is not a rotation or reflection of it yields
// ErrTopologyInconsistency.
func (m *Mesh[P]) CreateElement(tag topology.Tag, vertices []Handle) (h Handle, err error) {
	if err = m.validate(tag, vertices); err != nil {
		return
	}
	h, _ = m.findOrInsert(tag, vertices)
	return
}

func (m *Mesh[P]) validate(tag topology.Tag, vertices []Handle) error {
	if _, err := topology.Lookup(tag); err != nil {
		return err
	}
	if tag == topology.Vertex {
		return fmt.Errorf("%w: vertices are created with CreateVertex", ErrInvalidDimension)
	}
	if tag.Dim() > m.CellDim() {
		return fmt.Errorf("%w: %s has dimension %d above the cell dimension %d",
			ErrInvalidDimension, tag, tag.Dim(), m.CellDim())
	}
	if len(vertices) != tag.NumVertices() {
		return fmt.Errorf("%w: %s needs %d vertices, got %d",
			ErrInvalidArity, tag, tag.NumVertices(), len(vertices))
	}
	for i, v := range vertices {
		if !m.owns(v) || v.dim != 0 {
			return fmt.Errorf("%w: vertex %d (%v) is not a vertex of mesh %d",
				ErrDanglingVertex, i, v, m.id)
		}
	}
	key, err := m.key(vertices)
	if err != nil {
		return err
	}
	if key.HasDuplicates() {
		return fmt.Errorf("%w: %s with repeated vertices %s", ErrDegenerateElement, tag, key)
	}
	if _, exists := m.stores[tag.Dim()].find(key); exists {
		return nil
	}
	return m.checkOrientation(tag, vertices, make(map[types.ElementKey][]Handle))
}

// checkOrientation walks the facets that build would visit, in the same
// order, and rejects any facet whose induced vertex order is not an
// orientation map of the order it is, or will be, stored in. pending holds
// the vertex order of facets first inserted by this call.
func (m *Mesh[P]) checkOrientation(tag topology.Tag, vertices []Handle,
	pending map[types.ElementKey][]Handle) error {
	for i, f := range tag.Facets() {
		if f.Tag == topology.Vertex {
			continue
		}
		fverts := make([]Handle, len(f.Vertices))
		for j, lv := range f.Vertices {
			fverts[j] = vertices[lv]
		}
		key, err := m.key(fverts)
		if err != nil {
			return err
		}
		var stored []Handle
		if idx, ok := m.stores[f.Tag.Dim()].find(key); ok {
			stored = m.stores[f.Tag.Dim()].elements[idx].Vertices
		} else if pv, ok := pending[key]; ok {
			stored = pv
		} else {
			pending[key] = fverts
			if err = m.checkOrientation(f.Tag, fverts, pending); err != nil {
				return err
			}
			continue
		}
		perm, err := topology.NewPermutation(indices(fverts), indices(stored))
		if err != nil {
			return err
		}
		if f.Tag.OrientationSign(perm) == 0 {
			return fmt.Errorf("%w: facet %d of %s has vertex order %v incompatible with stored %s order %v",
				ErrTopologyInconsistency, i, tag, indices(fverts), f.Tag, indices(stored))
		}
	}
	return nil
}

func (m *Mesh[P]) key(vertices []Handle) (types.ElementKey, error) {
	idx := make([]int, len(vertices))
	for i, v := range vertices {
		idx[i] = int(v.index)
	}
	return types.NewElementKey(idx)
}

// findOrInsert is the recursive, memoized boundary generation. Its input has
// been validated, facets are subsets of validated vertex lists and cannot fail.
func (m *Mesh[P]) findOrInsert(tag topology.Tag, vertices []Handle) (h Handle, inserted bool) {
	var (
		d      = tag.Dim()
		key, _ = m.key(vertices)
		idx    int
	)
	idx, inserted = m.stores[d].findOrInsert(key, func() Element {
		return m.build(tag, vertices)
	})
	h = m.handle(d, idx)
	if inserted {
		m.cache.invalidate(d)
	}
	return
}

func (m *Mesh[P]) build(tag topology.Tag, vertices []Handle) (el Element) {
	var (
		facets = tag.Facets()
	)
	el = Element{
		Tag:          tag,
		Vertices:     append([]Handle(nil), vertices...),
		Facets:       make([]Handle, len(facets)),
		Orientations: make([]topology.Permutation, len(facets)),
		Signs:        make([]int, len(facets)),
	}
	for i, f := range facets {
		var (
			fverts = make([]Handle, len(f.Vertices))
			fh     Handle
		)
		for j, lv := range f.Vertices {
			fverts[j] = vertices[lv]
		}
		if f.Tag == topology.Vertex {
			fh = fverts[0]
		} else {
			fh, _ = m.findOrInsert(f.Tag, fverts)
		}
		perm, err := topology.NewPermutation(indices(fverts), indices(m.element(fh).Vertices))
		if err != nil {
			// Same vertex set by construction of the key
			panic(err)
		}
		el.Facets[i] = fh
		el.Orientations[i] = perm
		el.Signs[i] = f.Sign * f.Tag.OrientationSign(perm)
	}
	// Facets first, so IDs grow from the bottom of the closure up
	el.ID = m.newID()
	return
}

func indices(hs []Handle) []int {
	idx := make([]int, len(hs))
	for i, h := range hs {
		idx[i] = int(h.index)
	}
	return idx
}

// Find returns the stored element of the given dimension whose vertex set
// equals vertices, in any order, without inserting anything
func (m *Mesh[P]) Find(dim int, vertices []Handle) (h Handle, ok bool) {
	if dim < 1 || dim >= len(m.stores) {
		return
	}
	for _, v := range vertices {
		if !m.owns(v) || v.dim != 0 {
			return
		}
	}
	key, err := m.key(vertices)
	if err != nil {
		return
	}
	idx, ok := m.stores[dim].find(key)
	if !ok {
		return
	}
	return m.handle(dim, idx), true
}
